package timetable

import (
	"fmt"
	"sort"
	"strings"
)

// ItemKind distinguishes the two scheduled item variants.
type ItemKind string

const (
	KindClass ItemKind = "class"
	KindEvent ItemKind = "event"
)

// BorderColor is the rendering hint for a card's border.
type BorderColor string

const (
	BorderRed         BorderColor = "red"
	BorderOrange      BorderColor = "orange"
	BorderTransparent BorderColor = "transparent"
)

// ScheduledItem is a single card on the weekly grid: either one period of a
// selected class or a user-created event. Identity is carried by ID, never
// by struct equality, so two periods of the same class share an ID.
type ScheduledItem struct {
	Kind       ItemKind     `json:"kind"`
	ID         string       `json:"id"`
	CourseCode string       `json:"courseCode,omitempty"`
	Activity   string       `json:"activity,omitempty"`
	Interval   TimeInterval `json:"interval"`
	Locations  []string     `json:"locations,omitempty"`
}

// IsLecture reports whether a class item belongs to a lecture activity.
// Lecture streams routinely overlap tutorials and are not flagged as hard
// clashes.
func (i ScheduledItem) IsLecture() bool {
	return i.Kind == KindClass && strings.Contains(i.Activity, "Lecture")
}

// IsDuplicateOf reports whether two class items are siblings: the same
// activity taught at the identical time, differing only in location. Such
// periods merge into one card rather than clashing.
func (i ScheduledItem) IsDuplicateOf(other ScheduledItem) bool {
	if i.Kind != KindClass || other.Kind != KindClass {
		return false
	}
	return i.CourseCode == other.CourseCode &&
		i.Activity == other.Activity &&
		i.Interval.SameSpan(other.Interval)
}

// ClashGroup is a maximal run of time-adjacent overlapping items on one
// day, ordered by (start, end). Groups drive side-by-side card layout.
type ClashGroup struct {
	Day   int             `json:"day"`
	Items []ScheduledItem `json:"items"`
}

// RenderHint carries everything the grid needs to lay out one card.
type RenderHint struct {
	WidthPercent float64     `json:"widthPercent"`
	SlotIndex    int         `json:"slotIndex"`
	Border       BorderColor `json:"border"`
}

// IntegrityWarning reports a malformed item that was skipped rather than
// allowed to break the whole pass.
type IntegrityWarning struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// ClashResult is the full output of one detection pass.
type ClashResult struct {
	Groups   map[int][]ClashGroup `json:"groups"`
	Warnings []IntegrityWarning   `json:"warnings,omitempty"`
}

// ComputeClashes recomputes clash groups from scratch for the given
// snapshot. Input order is preserved for equal (start, end) pairs, so the
// same snapshot always produces the same groups and hints.
func ComputeClashes(items []ScheduledItem) ClashResult {
	result := ClashResult{Groups: make(map[int][]ClashGroup)}

	valid := make([]ScheduledItem, 0, len(items))
	for _, item := range items {
		if !item.Interval.Valid() {
			result.Warnings = append(result.Warnings, IntegrityWarning{
				ItemID: item.ID,
				Reason: fmt.Sprintf("invalid interval day=%d start=%v end=%v", item.Interval.Day, item.Interval.Start, item.Interval.End),
			})
			continue
		}
		valid = append(valid, item)
	}

	clashing := collectClashing(valid)

	byDay := make(map[int][]ScheduledItem)
	for _, item := range clashing {
		day := item.Interval.Normalized().Day
		byDay[day] = append(byDay[day], item)
	}

	for day, dayItems := range byDay {
		sort.SliceStable(dayItems, func(i, j int) bool {
			a, b := dayItems[i].Interval.Normalized(), dayItems[j].Interval.Normalized()
			if a.Start != b.Start {
				return a.Start < b.Start
			}
			return a.End < b.End
		})
		result.Groups[day] = groupRuns(day, dayItems)
	}

	return result
}

// collectClashing returns, in input order, every item that overlaps some
// other item in time. Duplicate periods (same activity, same span) are
// siblings, not clashes.
func collectClashing(items []ScheduledItem) []ScheduledItem {
	marked := make([]bool, len(items))
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if items[i].ID == items[j].ID {
				continue
			}
			if items[i].IsDuplicateOf(items[j]) {
				continue
			}
			if Overlaps(items[i].Interval, items[j].Interval) {
				marked[i] = true
				marked[j] = true
			}
		}
	}
	clashing := make([]ScheduledItem, 0, len(items))
	for i, item := range items {
		if marked[i] {
			clashing = append(clashing, item)
		}
	}
	return clashing
}

// groupRuns partitions a sorted day into maximal runs. An item joins the
// current run when its span pierces the run's time envelope; this is the
// greedy interval-run criterion used for equal-width column layout, not
// connected components of the overlap graph.
func groupRuns(day int, sorted []ScheduledItem) []ClashGroup {
	var groups []ClashGroup
	for _, item := range sorted {
		interval := item.Interval.Normalized()
		added := false
		for g := range groups {
			last := groups[g].Items[len(groups[g].Items)-1].Interval.Normalized()
			first := groups[g].Items[0].Interval.Normalized()
			if interval.Start < last.End && interval.End > first.Start {
				groups[g].Items = append(groups[g].Items, item)
				added = true
			}
		}
		if !added {
			groups = append(groups, ClashGroup{Day: day, Items: []ScheduledItem{item}})
		}
	}
	return groups
}

// HintFor derives the layout hint for one card from a detection result.
// Items outside every group get the full column and no border.
func (r ClashResult) HintFor(item ScheduledItem) RenderHint {
	hint := RenderHint{WidthPercent: 100, SlotIndex: 0, Border: BorderTransparent}

	group, ok := r.findGroup(item)
	if !ok {
		return hint
	}

	var uniqueIDs []string
	seen := make(map[string]struct{})
	nonLectureClasses := make(map[string]struct{})
	weekOverlapped := false

	for _, member := range group.Items {
		if _, dup := seen[member.ID]; !dup {
			seen[member.ID] = struct{}{}
			uniqueIDs = append(uniqueIDs, member.ID)
		}
		if member.Kind == KindClass && !member.IsLecture() {
			nonLectureClasses[member.ID] = struct{}{}
		}
		// Week-disjoint classes share the grid column but are not a
		// real clash, so they must not produce a warning border.
		if member.Kind == KindClass && item.Kind == KindClass && member.ID != item.ID {
			if WeeksIntersect(member.Interval.Weeks, item.Interval.Weeks) {
				weekOverlapped = true
			}
		}
	}

	hint.WidthPercent = 100 / float64(len(uniqueIDs))
	for idx, id := range uniqueIDs {
		if id == item.ID {
			hint.SlotIndex = idx
			break
		}
	}

	switch {
	case item.Kind != KindEvent && len(nonLectureClasses) > 1 && weekOverlapped:
		hint.Border = BorderRed
	case weekOverlapped:
		hint.Border = BorderOrange
	default:
		hint.Border = BorderTransparent
	}

	return hint
}

func (r ClashResult) findGroup(item ScheduledItem) (ClashGroup, bool) {
	day := item.Interval.Normalized().Day
	for _, group := range r.Groups[day] {
		for _, member := range group.Items {
			if member.ID == item.ID && member.Interval.SameSpan(item.Interval) {
				return group, true
			}
		}
	}
	return ClashGroup{}, false
}
