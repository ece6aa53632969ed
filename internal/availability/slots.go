// Package availability holds the pure minute-of-day slot arithmetic the
// booking engine is built on. All intervals are half-open: a booking that
// ends exactly when another starts does not overlap it.
package availability

import "fmt"

// Slot is a bookable start time within a day, with its "HH:MM" label.
type Slot struct {
	StartMin int    `json:"start_min"`
	Label    string `json:"label"`
}

// Busy is an occupied interval [StartMin, StartMin+DurationMin).
type Busy struct {
	StartMin    int
	DurationMin int
}

// Overlaps reports whether [aStart, aStart+aDur) and [bStart, bStart+bDur)
// intersect.
func Overlaps(aStart, aDur, bStart, bDur int) bool {
	return aStart < bStart+bDur && bStart < aStart+aDur
}

// OverlapsAny reports whether the interval [start, start+dur) intersects any
// of the busy intervals.
func OverlapsAny(start, dur int, busy []Busy) bool {
	for _, b := range busy {
		if Overlaps(start, dur, b.StartMin, b.DurationMin) {
			return true
		}
	}
	return false
}

// SlotStarts returns the candidate start minutes startMin, startMin+step, ...
// whose step-sized interval still fits before endMin.
func SlotStarts(startMin, endMin, step int) []int {
	if step <= 0 {
		return nil
	}
	var starts []int
	for m := startMin; m+step <= endMin; m += step {
		starts = append(starts, m)
	}
	return starts
}

// Clock renders a minute-of-day offset as "HH:MM".
func Clock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
