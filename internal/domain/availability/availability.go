// Package availability decides whether a store is currently accepting
// orders, based on its daily operating window and a reference time.
package availability

import (
	"time"

	"sabor/internal/domain/entity"
)

// Advisory is a hint attached to an availability evaluation, used by
// clients to render badges next to the open/closed state.
type Advisory string

// Advisory values.
const (
	AdvisoryNone        Advisory = ""             // No special hint.
	AdvisoryAlwaysOpen  Advisory = "always_open"  // The store never closes.
	AdvisoryClosingSoon Advisory = "closing_soon" // The store is open but closes within ClosingSoonWindow.
)

// ClosingSoonWindow is how close to closing time a store must be, while
// open, for the closing-soon advisory to apply.
const ClosingSoonWindow = 60 * time.Minute

// Evaluation is the result of checking a store's schedule against a moment
// in time.
type Evaluation struct {
	Open              bool     // Whether the store accepts orders right now.
	Advisory          Advisory // Optional rendering hint.
	MinutesUntilClose int      // Minutes until the window closes; zero when closed or always open.
}

// Evaluate checks schedule against now. Only now's wall clock matters; the
// date and time zone are taken as the store's local day.
//
// Both window bounds are inclusive. A window whose closing time precedes its
// opening time spans midnight: 22:00–05:00 is open at 23:30 and at 04:00.
func Evaluate(schedule entity.StoreSchedule, now time.Time) Evaluation {
	if schedule.Is24Hours {
		return Evaluation{Open: true, Advisory: AdvisoryAlwaysOpen}
	}

	open := int(schedule.OpensAt)
	close := int(schedule.ClosesAt)
	current := int(entity.MinutesOfDay(now))

	if close < open {
		// The window wraps past midnight. Shift the close into the next
		// day, and shift an early-morning "now" along with it so that
		// 04:00 falls inside a 22:00-05:00 window.
		close += entity.MinutesPerDay
		if current < open {
			current += entity.MinutesPerDay
		}
	}

	if current < open || current > close {
		return Evaluation{}
	}

	evaluation := Evaluation{Open: true, MinutesUntilClose: close - current}
	if time.Duration(evaluation.MinutesUntilClose)*time.Minute <= ClosingSoonWindow {
		evaluation.Advisory = AdvisoryClosingSoon
	}

	return evaluation
}
