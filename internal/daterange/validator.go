// Package daterange checks user-selected date ranges against the query window.
package daterange

import (
	"fmt"

	"github.com/newthinker/fxsignals/internal/core"
)

// Validate checks r against b. Rules apply in order and the first failure
// is returned, so at most one error is reported.
func Validate(r core.DateRange, b core.DateBound) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return core.ErrMissingDate
	}

	if r.Start.Before(b.MinStart) {
		return core.WithMessage(core.ErrStartBeforeMinimum,
			fmt.Sprintf("Start date cannot be before %s", b.MinStart.Long()))
	}

	if r.End.After(b.MaxEnd) {
		return core.WithMessage(core.ErrEndAfterMaximum,
			fmt.Sprintf("End date cannot be after %s", b.MaxEnd.Long()))
	}

	if r.Start.After(r.End) {
		return core.ErrStartAfterEnd
	}

	return nil
}

// Picker holds the min/max attributes of one date input.
type Picker struct {
	Min core.Date
	Max core.Date
}

// PickerBounds returns the selectable window of the start and end inputs.
// Each input is bounded by the query window and by the other input's value.
func PickerBounds(r core.DateRange, b core.DateBound) (start, end Picker) {
	start = Picker{Min: b.MinStart, Max: b.MaxEnd}
	if !r.End.IsZero() {
		start.Max = r.End
	}

	end = Picker{Min: b.MinStart, Max: b.MaxEnd}
	if !r.Start.IsZero() {
		end.Min = r.Start
	}
	return start, end
}
