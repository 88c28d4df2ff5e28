// Package entity contains the core business objects of the project.
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxNoteLength is the maximum length, in runes, of a cart line note.
const MaxNoteLength = 255

// CartLine is a single configured item in a user's cart. Two lines with the
// same item but different add-on selections or notes are distinct lines.
type CartLine struct {
	ID         uuid.UUID       // Database identifier of the line.
	UserID     uuid.UUID       // Owner of the cart this line belongs to.
	Key        string          // Deterministic key derived from item, selections and note. See LineKey.
	StoreSlug  string          // Slug of the store the item was added from.
	StoreName  string          // Display name of that store, for cart rendering.
	ItemID     string          // Catalog ID of the menu item.
	ItemName   string          // Display name of the item at the time it was added.
	UnitPrice  decimal.Decimal // Price of one unit including selected add-ons, captured at add time.
	Quantity   int             // Number of units. Always at least one.
	Selections AddOnSelection  // The add-on configuration for this line.
	Note       string          // Free-text preparation note, at most MaxNoteLength runes.
	CreatedAt  time.Time       // Timestamp of when this line was first added.
	UpdatedAt  time.Time       // Timestamp of the last quantity or note change.
}

// LineTotal returns the line's price: unit price times quantity.
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineKey derives the deterministic cart line key for an item configuration.
// The key is stable under map iteration order and option insertion order, so
// adding the same configuration twice lands on the same line.
func LineKey(itemID string, selections AddOnSelection, note string) string {
	var b strings.Builder
	b.WriteString(itemID)
	b.WriteByte('\x00')

	groupKeys := make([]string, 0, len(selections))
	for key, names := range selections {
		if len(names) == 0 {
			continue
		}
		groupKeys = append(groupKeys, key)
	}
	sort.Strings(groupKeys)

	for _, key := range groupKeys {
		names := append([]string(nil), selections[key]...)
		sort.Strings(names)

		b.WriteString(key)
		b.WriteByte('\x01')
		for _, name := range names {
			b.WriteString(name)
			b.WriteByte('\x02')
		}
		b.WriteByte('\x00')
	}

	b.WriteByte('\x00')
	b.WriteString(note)

	sum := sha256.Sum256([]byte(b.String()))

	return hex.EncodeToString(sum[:12])
}
