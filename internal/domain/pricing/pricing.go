// Package pricing computes order prices from menu items and add-on
// selections, and implements the add-on toggle rules.
package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"sabor/internal/domain/entity"
	"sabor/internal/errors"
)

// Validation failures returned by Price and Toggle. Callers translate these
// into user-facing errors at the delivery layer.
var (
	ErrInvalidQuantity   = errors.New("quantity must be at least one")
	ErrUnknownGroup      = errors.New("add-on group does not exist on this item")
	ErrUnknownOption     = errors.New("add-on option does not exist in this group")
	ErrTooManySelections = errors.New("add-on group selection limit reached")
	ErrGroupUnsatisfied  = errors.New("required add-on group has too few selections")
)

// Quote is the priced result for one configured item line.
type Quote struct {
	UnitPrice  decimal.Decimal // Base price plus the price of every selected add-on.
	AddOnTotal decimal.Decimal // Combined surcharge of the selected add-ons for one unit.
	LineTotal  decimal.Decimal // UnitPrice times the quantity.
	Valid      bool            // False when any required group is under its minimum.
	Violations []string        // One entry per unsatisfied required group.
}

// UnitPrice computes the price of a single unit of item with the given
// selections: the base price plus each selected option's surcharge.
// Selections naming groups or options the item does not have are rejected,
// as are groups selected beyond their maximum.
func UnitPrice(item *entity.MenuItem, selections entity.AddOnSelection) (decimal.Decimal, error) {
	price := item.BasePrice

	for groupKey, names := range selections {
		group := item.Group(groupKey)
		if group == nil {
			return decimal.Decimal{}, errors.Wrapf(ErrUnknownGroup, "group %q", groupKey)
		}
		if group.MaxSelections > 0 && len(names) > group.MaxSelections {
			return decimal.Decimal{}, errors.Wrapf(ErrTooManySelections, "group %q allows %d", groupKey, group.MaxSelections)
		}

		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			option := group.Option(name)
			if option == nil {
				return decimal.Decimal{}, errors.Wrapf(ErrUnknownOption, "option %q in group %q", name, groupKey)
			}
			if _, dup := seen[name]; dup {
				return decimal.Decimal{}, errors.Wrapf(ErrUnknownOption, "option %q selected twice in group %q", name, groupKey)
			}
			seen[name] = struct{}{}

			price = price.Add(option.Price)
		}
	}

	return price, nil
}

// Price computes the full quote for quantity units of item with the given
// selections. Beyond the UnitPrice checks, every group with a minimum must
// have at least that many selections; groups with a minimum of zero are
// optional and may be absent entirely. When required groups are unsatisfied
// the quote still carries the totals, with Valid false and one violation
// per unsatisfied group, alongside an ErrGroupUnsatisfied error.
func Price(item *entity.MenuItem, selections entity.AddOnSelection, quantity int) (Quote, error) {
	if quantity < 1 {
		return Quote{}, errors.Wrapf(ErrInvalidQuantity, "got %d", quantity)
	}

	unit, err := UnitPrice(item, selections)
	if err != nil {
		return Quote{}, err
	}

	var violations []string
	for i := range item.AddOnGroups {
		group := &item.AddOnGroups[i]
		if group.MinSelections == 0 {
			continue
		}
		if selections.Count(group.Key()) < group.MinSelections {
			violations = append(violations, fmt.Sprintf("group %q requires %d", group.Key(), group.MinSelections))
		}
	}

	quote := Quote{
		UnitPrice:  unit,
		AddOnTotal: unit.Sub(item.BasePrice),
		LineTotal:  unit.Mul(decimal.NewFromInt(int64(quantity))),
		Valid:      len(violations) == 0,
		Violations: violations,
	}
	if !quote.Valid {
		return quote, errors.Wrap(ErrGroupUnsatisfied, strings.Join(violations, "; "))
	}

	return quote, nil
}

// Toggle switches one add-on option on or off and returns the resulting
// selection. The input selection is never mutated.
//
// Toggling off always removes the option, selected or not. Toggling on is
// idempotent for an already-selected option; in a single-choice group it
// replaces the current selection; in a multi-choice group already at its
// maximum it fails with ErrTooManySelections.
func Toggle(item *entity.MenuItem, selections entity.AddOnSelection, groupKey, optionName string, on bool) (entity.AddOnSelection, error) {
	group := item.Group(groupKey)
	if group == nil {
		return nil, errors.Wrapf(ErrUnknownGroup, "group %q", groupKey)
	}
	if group.Option(optionName) == nil {
		return nil, errors.Wrapf(ErrUnknownOption, "option %q in group %q", optionName, groupKey)
	}

	out := selections.Clone()

	if !on {
		names := out[groupKey]
		kept := names[:0]
		for _, name := range names {
			if name != optionName {
				kept = append(kept, name)
			}
		}
		if len(kept) == 0 {
			delete(out, groupKey)
		} else {
			out[groupKey] = kept
		}

		return out, nil
	}

	if out.Contains(groupKey, optionName) {
		return out, nil
	}

	if group.MaxSelections == 1 {
		out[groupKey] = []string{optionName}

		return out, nil
	}

	if group.MaxSelections > 0 && len(out[groupKey]) >= group.MaxSelections {
		return nil, errors.Wrapf(ErrTooManySelections, "group %q allows %d", groupKey, group.MaxSelections)
	}

	out[groupKey] = append(out[groupKey], optionName)

	return out, nil
}

var feePattern = regexp.MustCompile(`[\d,]+`)

// ParseDeliveryFee converts a display-form delivery fee such as "R$ 5,99"
// into a decimal amount. "Grátis" in any casing, with or without the
// accent, parses as zero, as does anything with no digits at all.
func ParseDeliveryFee(display string) decimal.Decimal {
	normalized := strings.ToLower(strings.TrimSpace(display))
	if normalized == "" || strings.Contains(normalized, "grátis") || strings.Contains(normalized, "gratis") {
		return decimal.Zero
	}

	match := feePattern.FindString(normalized)
	if match == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(match, ",", "."))
	if err != nil {
		return decimal.Zero
	}

	return amount
}
