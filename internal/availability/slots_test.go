package availability

import (
	"reflect"
	"testing"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aDur, bStart, bDur int
		want                       bool
	}{
		{"adjacent intervals do not overlap", 0, 30, 30, 30, false},
		{"containment overlaps", 0, 60, 30, 30, true},
		{"gap between intervals", 10, 20, 40, 20, false},
		{"identical intervals", 600, 30, 600, 30, true},
		{"b ends where a starts", 60, 30, 0, 60, false},
		{"partial tail overlap", 570, 60, 600, 60, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aDur, tc.bStart, tc.bDur); got != tc.want {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v",
					tc.aStart, tc.aDur, tc.bStart, tc.bDur, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.bStart, tc.bDur, tc.aStart, tc.aDur); got != tc.want {
				t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v",
					tc.bStart, tc.bDur, tc.aStart, tc.aDur, got, tc.want)
			}
		})
	}
}

func TestSlotStarts(t *testing.T) {
	// 09:00-12:00 at a 30 minute step: last valid start is 11:30.
	got := SlotStarts(540, 720, 30)
	want := []int{540, 570, 600, 630, 660, 690}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SlotStarts(540,720,30) = %v, want %v", got, want)
	}
}

func TestSlotStarts_EmptyWindow(t *testing.T) {
	if got := SlotStarts(540, 540, 30); got != nil {
		t.Fatalf("expected no slots for empty window, got %v", got)
	}
	if got := SlotStarts(540, 560, 30); got != nil {
		t.Fatalf("expected no slots when the step does not fit, got %v", got)
	}
	if got := SlotStarts(540, 720, 0); got != nil {
		t.Fatalf("expected no slots for zero step, got %v", got)
	}
}

func TestOverlapsAny(t *testing.T) {
	busy := []Busy{{StartMin: 600, DurationMin: 60}}
	if OverlapsAny(570, 30, busy) {
		t.Fatal("570+30 ends exactly at 600, must not overlap")
	}
	if !OverlapsAny(630, 30, busy) {
		t.Fatal("630 falls inside [600,660), must overlap")
	}
	if OverlapsAny(660, 30, busy) {
		t.Fatal("660 starts exactly at the busy end, must not overlap")
	}
}

func TestClock(t *testing.T) {
	cases := map[int]string{
		0:   "00:00",
		540: "09:00",
		575: "09:35",
		690: "11:30",
	}
	for min, want := range cases {
		if got := Clock(min); got != want {
			t.Fatalf("Clock(%d) = %q, want %q", min, got, want)
		}
	}
}
