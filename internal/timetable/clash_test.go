package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classItem(id, course, activity string, day int, start, end float64, weeks ...int) ScheduledItem {
	return ScheduledItem{
		Kind:       KindClass,
		ID:         id,
		CourseCode: course,
		Activity:   activity,
		Interval:   TimeInterval{Day: day, Start: start, End: end, Weeks: weeks},
	}
}

func eventItem(id string, day int, start, end float64) ScheduledItem {
	return ScheduledItem{
		Kind:     KindEvent,
		ID:       id,
		Interval: TimeInterval{Day: day, Start: start, End: end},
	}
}

func TestComputeClashesNoOverlap(t *testing.T) {
	result := ComputeClashes([]ScheduledItem{
		classItem("c1", "COMP1511", "Tutorial", 1, 9, 10),
		classItem("c2", "COMP1511", "Lab", 1, 10, 12),
		classItem("c3", "MATH1131", "Tutorial", 2, 9, 10),
	})

	assert.Empty(t, result.Groups)
	assert.Empty(t, result.Warnings)

	hint := result.HintFor(classItem("c1", "COMP1511", "Tutorial", 1, 9, 10))
	assert.Equal(t, 100.0, hint.WidthPercent)
	assert.Equal(t, 0, hint.SlotIndex)
	assert.Equal(t, BorderTransparent, hint.Border)
}

func TestComputeClashesPairSplitsColumn(t *testing.T) {
	a := classItem("c1", "COMP1511", "Tutorial", 1, 9, 10)
	b := classItem("c2", "MATH1131", "Lab", 1, 9.5, 11)

	result := ComputeClashes([]ScheduledItem{a, b})

	require.Len(t, result.Groups[1], 1)
	require.Len(t, result.Groups[1][0].Items, 2)

	hintA := result.HintFor(a)
	hintB := result.HintFor(b)
	assert.Equal(t, 50.0, hintA.WidthPercent)
	assert.Equal(t, 50.0, hintB.WidthPercent)
	assert.Equal(t, 0, hintA.SlotIndex)
	assert.Equal(t, 1, hintB.SlotIndex)
	assert.Equal(t, BorderRed, hintA.Border, "two clashing non-lecture classes are a hard clash")
	assert.Equal(t, BorderRed, hintB.Border)
}

func TestComputeClashesLectureSoftens(t *testing.T) {
	tut := classItem("c1", "COMP1511", "Tutorial", 1, 9, 10)
	lec := classItem("c2", "MATH1131", "Lecture A", 1, 9, 11)

	result := ComputeClashes([]ScheduledItem{tut, lec})

	assert.Equal(t, BorderOrange, result.HintFor(tut).Border)
	assert.Equal(t, BorderOrange, result.HintFor(lec).Border)
}

func TestComputeClashesWeekDisjointIsNotAClash(t *testing.T) {
	a := classItem("c1", "COMP1511", "Tutorial", 2, 10, 11, 1, 2, 3, 4, 5)
	b := classItem("c2", "MATH1131", "Tutorial", 2, 10, 11, 6, 7, 8, 9, 10)

	result := ComputeClashes([]ScheduledItem{a, b})

	// They still share the column for layout purposes.
	assert.Equal(t, 50.0, result.HintFor(a).WidthPercent)
	assert.Equal(t, BorderTransparent, result.HintFor(a).Border)
	assert.Equal(t, BorderTransparent, result.HintFor(b).Border)
}

func TestComputeClashesEventNeverRed(t *testing.T) {
	class := classItem("c1", "COMP1511", "Tutorial", 3, 14, 15)
	event := eventItem("e1", 3, 14, 16)

	result := ComputeClashes([]ScheduledItem{class, event})

	assert.Equal(t, BorderTransparent, result.HintFor(event).Border)
	assert.Equal(t, BorderTransparent, result.HintFor(class).Border)
	assert.Equal(t, 50.0, result.HintFor(event).WidthPercent)
}

func TestComputeClashesDuplicatePeriodsAreSiblings(t *testing.T) {
	// Same activity at the same time in two rooms: one renderable slot,
	// not a clash.
	a := classItem("c1", "COMP1511", "Tutorial", 1, 9, 10)
	a.Locations = []string{"Quad G040"}
	b := classItem("c2", "COMP1511", "Tutorial", 1, 9, 10)
	b.Locations = []string{"Online"}

	result := ComputeClashes([]ScheduledItem{a, b})
	assert.Empty(t, result.Groups)
}

func TestComputeClashesGreedyRunChaining(t *testing.T) {
	// 9-10, 9:30-11 and 10:30-12 chain through the shared window even
	// though the first and third never touch directly.
	a := classItem("c1", "COMP1511", "Tutorial", 1, 9, 10)
	b := classItem("c2", "MATH1131", "Tutorial", 1, 9.5, 11)
	c := classItem("c3", "PHYS1121", "Tutorial", 1, 10.5, 12)

	result := ComputeClashes([]ScheduledItem{a, b, c})

	require.Len(t, result.Groups[1], 1)
	assert.Len(t, result.Groups[1][0].Items, 3)
	assert.InDelta(t, 100.0/3, result.HintFor(a).WidthPercent, 1e-9)

	total := result.HintFor(a).WidthPercent + result.HintFor(b).WidthPercent + result.HintFor(c).WidthPercent
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestComputeClashesSkipsMalformedItems(t *testing.T) {
	good := classItem("c1", "COMP1511", "Tutorial", 1, 9, 10)
	badDay := classItem("c2", "MATH1131", "Tutorial", 9, 9, 10)
	badSpan := classItem("c3", "PHYS1121", "Tutorial", 1, 10, 9)

	result := ComputeClashes([]ScheduledItem{good, badDay, badSpan})

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "c2", result.Warnings[0].ItemID)
	assert.Equal(t, "c3", result.Warnings[1].ItemID)
	assert.Empty(t, result.Groups)
}

func TestComputeClashesDeterministic(t *testing.T) {
	items := []ScheduledItem{
		classItem("c1", "COMP1511", "Tutorial", 1, 9, 10),
		classItem("c2", "MATH1131", "Lab", 1, 9, 10),
		classItem("c3", "PHYS1121", "Tutorial", 1, 9, 11),
		eventItem("e1", 1, 9.5, 10.5),
	}

	first := ComputeClashes(items)
	second := ComputeClashes(items)

	for _, item := range items {
		assert.Equal(t, first.HintFor(item), second.HintFor(item))
	}
	assert.Equal(t, first.Groups, second.Groups)
}

func TestComputeClashesSeparateGroupsPerDay(t *testing.T) {
	items := []ScheduledItem{
		classItem("c1", "COMP1511", "Tutorial", 1, 9, 10),
		classItem("c2", "MATH1131", "Tutorial", 1, 9, 10),
		classItem("c3", "COMP1511", "Lab", 1, 14, 16),
		classItem("c4", "MATH1131", "Lab", 1, 15, 17),
		classItem("c5", "PHYS1121", "Tutorial", 2, 9, 10),
		eventItem("e1", 2, 9, 11),
	}

	result := ComputeClashes(items)

	assert.Len(t, result.Groups[1], 2, "morning and afternoon runs stay separate")
	assert.Len(t, result.Groups[2], 1)
}
