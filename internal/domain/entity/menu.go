// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MenuCategory groups related items within a single store's menu,
// e.g., "Pizzas Tradicionais" or "Bebidas".
type MenuCategory struct {
	Name  string // Display name of the category, unique within the store.
	Items []MenuItem
}

// MenuItem is a single orderable product on a store's menu.
type MenuItem struct {
	ID          string          // Stable catalog identifier, unique within the store.
	Name        string          // Display name of the item.
	Description string          // Short marketing description.
	Image       string          // URL of the item's photo.
	BasePrice   decimal.Decimal // Price of the item before add-ons.
	AddOnGroups []AddOnGroup
}

// Group returns the add-on group with the given key, or nil.
func (m *MenuItem) Group(key string) *AddOnGroup {
	for i := range m.AddOnGroups {
		if m.AddOnGroups[i].Key() == key {
			return &m.AddOnGroups[i]
		}
	}

	return nil
}

// AddOnOption is one selectable choice within an add-on group.
type AddOnOption struct {
	Name  string          // Display name of the option, unique within its group.
	Price decimal.Decimal // Surcharge added to the item's unit price when selected. Zero for free options.
}

// AddOnGroup is a named set of options attached to a menu item, with
// selection bounds. MinSelections of zero makes the whole group optional.
type AddOnGroup struct {
	Title         string // Display title, e.g., "Escolha o tamanho".
	MinSelections int    // Minimum number of selected options for the group to be satisfied.
	MaxSelections int    // Maximum number of options that may be selected at once. One means single-choice.
	Options       []AddOnOption
}

// Key returns the group's stable identifier: a slug of its title.
// Slugs survive group reordering in the catalog, unlike positional indexes.
func (g *AddOnGroup) Key() string {
	return Slugify(g.Title)
}

// Option returns the option with the given name, or nil.
func (g *AddOnGroup) Option(name string) *AddOnOption {
	for i := range g.Options {
		if g.Options[i].Name == name {
			return &g.Options[i]
		}
	}

	return nil
}

// AddOnSelection maps an add-on group key to the names of its selected
// options. Groups with no selected options are absent from the map.
type AddOnSelection map[string][]string

// Count returns the number of selected options in the given group.
func (s AddOnSelection) Count(groupKey string) int {
	return len(s[groupKey])
}

// Contains reports whether the named option is selected in the given group.
func (s AddOnSelection) Contains(groupKey, option string) bool {
	for _, name := range s[groupKey] {
		if name == option {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the selection.
func (s AddOnSelection) Clone() AddOnSelection {
	if s == nil {
		return AddOnSelection{}
	}

	out := make(AddOnSelection, len(s))
	for key, names := range s {
		out[key] = append([]string(nil), names...)
	}

	return out
}

// Slugify lowercases s and replaces runs of non-alphanumeric characters
// with single hyphens. Accented letters are kept as-is after lowercasing.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false

			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
