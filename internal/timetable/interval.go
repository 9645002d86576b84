package timetable

// midnightHour is the canonical encoding for spans that run to the end of
// the day. Upstream data encodes "ends at midnight" as End == 0.
const midnightHour = 24.0

// TimeInterval is a weekly recurring span on a single day of the week.
// Times are fractional hours, so 9.5 means 09:30. Weeks lists the teaching
// weeks the span is active in; an empty list means every week.
type TimeInterval struct {
	Day   int     `json:"day"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Weeks []int   `json:"weeks,omitempty"`
}

// Normalized returns a copy with the midnight sentinel mapped to 24.0.
// All predicates below expect normalized values.
func (t TimeInterval) Normalized() TimeInterval {
	if t.End == 0 {
		t.End = midnightHour
	}
	return t
}

// Valid reports whether the interval describes a usable span.
func (t TimeInterval) Valid() bool {
	n := t.Normalized()
	if n.Day < 1 || n.Day > 7 {
		return false
	}
	return n.Start >= 0 && n.Start < n.End && n.End <= midnightHour
}

// Duration returns the span length in hours.
func (t TimeInterval) Duration() float64 {
	n := t.Normalized()
	return n.End - n.Start
}

// SameSpan reports exact day/start/end equality, used to detect duplicate
// periods (same session taught in several rooms).
func (t TimeInterval) SameSpan(other TimeInterval) bool {
	a, b := t.Normalized(), other.Normalized()
	return a.Day == b.Day && a.Start == b.Start && a.End == b.End
}

// Overlaps reports whether two intervals collide in time. Intervals are
// half-open: a span ending at 10:00 does not collide with one starting at
// 10:00. Week sets are not consulted.
func Overlaps(a, b TimeInterval) bool {
	na, nb := a.Normalized(), b.Normalized()
	return na.Day == nb.Day && na.Start < nb.End && nb.Start < na.End
}

// WeeksIntersect reports whether two week sets share at least one week.
// An empty set means "every week" and therefore intersects anything.
func WeeksIntersect(a, b []int) bool {
	if len(a) == 0 || len(b) == 0 {
		return true
	}
	seen := make(map[int]struct{}, len(a))
	for _, week := range a {
		seen[week] = struct{}{}
	}
	for _, week := range b {
		if _, ok := seen[week]; ok {
			return true
		}
	}
	return false
}

// OverlapsInWeeks reports a time collision that is also active in a common
// week. This is the class-versus-class clash predicate; events carry no
// week sets and use Overlaps directly.
func OverlapsInWeeks(a, b TimeInterval) bool {
	return Overlaps(a, b) && WeeksIntersect(a.Weeks, b.Weeks)
}
