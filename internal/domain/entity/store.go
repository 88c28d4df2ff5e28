// Package entity contains the core business objects of the project.
package entity

import (
	"fmt"
	"time"

	"sabor/internal/errors"
)

// TimeOfDay is a clock time expressed as minutes since midnight, in the
// store's local time. Valid values are in [0, 1439].
type TimeOfDay int

// MinutesPerDay is the number of minutes in one day.
const MinutesPerDay = 24 * 60

// ErrInvalidSchedule rejects schedule times that are not a valid "HH:MM"
// 24-hour clock string.
var ErrInvalidSchedule = errors.New("invalid schedule time, expected HH:MM")

// ParseTimeOfDay parses a strict "HH:MM" 24-hour clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, errors.Wrapf(ErrInvalidSchedule, "%q", s)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return 0, errors.Wrapf(ErrInvalidSchedule, "%q: %s", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, errors.Wrapf(ErrInvalidSchedule, "%q out of range", s)
	}

	return TimeOfDay(hour*60 + minute), nil
}

// MinutesOfDay returns t's wall clock position as minutes since midnight.
func MinutesOfDay(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// String renders the time of day back into "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// StoreSchedule is a store's daily operating window. The same window applies
// every day of the week. A window whose closing time is earlier than its
// opening time spans midnight into the next day.
type StoreSchedule struct {
	OpensAt   TimeOfDay // Opening time, inclusive.
	ClosesAt  TimeOfDay // Closing time, inclusive. Earlier than OpensAt means the window wraps past midnight.
	Is24Hours bool      // True when the store never closes; OpensAt and ClosesAt are ignored.
}

// NewStoreSchedule builds a schedule from "HH:MM" opening and closing times.
// The "00:00"–"00:00" pair is the canonical around-the-clock representation
// and is normalized to Is24Hours.
func NewStoreSchedule(opensAt, closesAt string) (StoreSchedule, error) {
	opens, err := ParseTimeOfDay(opensAt)
	if err != nil {
		return StoreSchedule{}, err
	}
	closes, err := ParseTimeOfDay(closesAt)
	if err != nil {
		return StoreSchedule{}, err
	}

	if opens == 0 && closes == 0 {
		return StoreSchedule{Is24Hours: true}, nil
	}

	return StoreSchedule{OpensAt: opens, ClosesAt: closes}, nil
}

// Store is a restaurant or shop listed in the catalog.
type Store struct {
	ID              string        // Stable catalog identifier for the store.
	Slug            string        // URL-safe unique handle, e.g., "pizzaria-bella-napoli".
	Name            string        // Display name of the store.
	Logo            string        // URL of the store's logo image.
	Address         string        // Human-readable street address of the store itself.
	Rating          float64       // Average customer rating on a 0–5 scale.
	AvgDeliveryTime string        // Advertised delivery window, e.g., "30-45 min".
	DeliveryFee     string        // Display-form delivery fee, e.g., "R$ 5,99" or "Grátis".
	FreeDelivery    bool          // True when the store waives the delivery fee.
	Latitude        float64       // The geographic latitude of the store.
	Longitude       float64       // The geographic longitude of the store.
	Schedule        StoreSchedule // Daily operating window.
	Categories      []MenuCategory
}

// Category returns the menu category with the given name, or nil.
func (s *Store) Category(name string) *MenuCategory {
	for i := range s.Categories {
		if s.Categories[i].Name == name {
			return &s.Categories[i]
		}
	}

	return nil
}

// Item returns the menu item with the given ID, searching all categories.
func (s *Store) Item(itemID string) *MenuItem {
	for i := range s.Categories {
		for j := range s.Categories[i].Items {
			if s.Categories[i].Items[j].ID == itemID {
				return &s.Categories[i].Items[j]
			}
		}
	}

	return nil
}
