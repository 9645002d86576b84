package timetable

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for contract violations. A timetable with no feasible
// assignment is a normal Solution, never an error.
var (
	ErrNoActivities       = errors.New("solve requires at least one activity")
	ErrInvalidConstraints = errors.New("invalid constraint set")
)

const defaultNodeBudget = 200000

// Slot is one weekly session a candidate class occupies.
type Slot struct {
	Day      int     `json:"day"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Interval converts the slot into the interval model used by the clash
// predicates. Week sets are deliberately absent: the solver plans a
// template that must hold in every week.
func (s Slot) Interval() TimeInterval {
	return TimeInterval{Day: s.Day, Start: s.Start, End: s.Start + s.Duration}
}

// DeliveryMode describes how a candidate class is taught. It is attached
// during data normalisation rather than inferred from location strings.
type DeliveryMode string

const (
	ModeHybrid   DeliveryMode = "hybrid"
	ModeInPerson DeliveryMode = "in_person"
	ModeOnline   DeliveryMode = "online"
)

// CandidateClass is one concrete offering of an activity. All of its slots
// are taken together or not at all.
type CandidateClass struct {
	ID    string       `json:"id"`
	Mode  DeliveryMode `json:"mode"`
	Slots []Slot       `json:"slots"`
}

// Activity is a named group of alternative offerings from which exactly
// one (or none) must be chosen.
type Activity struct {
	CourseCode string           `json:"courseCode"`
	Name       string           `json:"name"`
	Candidates []CandidateClass `json:"candidates"`
}

// ConstraintSet is the immutable input of one solver invocation.
type ConstraintSet struct {
	EarliestStart   float64      `json:"earliestStart"`
	LatestEnd       float64      `json:"latestEnd"`
	AllowedDays     []int        `json:"allowedDays"`
	MinBreakHours   float64      `json:"minBreakHours"`
	MaxDaysOnCampus int          `json:"maxDaysOnCampus"`
	Mode            DeliveryMode `json:"mode"`
}

// Validate rejects nonsensical constraint sets before any search begins.
func (c ConstraintSet) Validate() error {
	if c.EarliestStart >= c.LatestEnd {
		return fmt.Errorf("%w: earliestStart %v must be before latestEnd %v", ErrInvalidConstraints, c.EarliestStart, c.LatestEnd)
	}
	if len(c.AllowedDays) == 0 {
		return fmt.Errorf("%w: allowedDays must not be empty", ErrInvalidConstraints)
	}
	for _, day := range c.AllowedDays {
		if day < 1 || day > 7 {
			return fmt.Errorf("%w: day %d out of range", ErrInvalidConstraints, day)
		}
	}
	if c.MinBreakHours < 0 {
		return fmt.Errorf("%w: minBreakHours must not be negative", ErrInvalidConstraints)
	}
	if c.MaxDaysOnCampus < 1 {
		return fmt.Errorf("%w: maxDaysOnCampus must be at least 1", ErrInvalidConstraints)
	}
	return nil
}

// Solution maps activity index to the chosen candidate index. Activities
// absent from Choices were excluded. Optimal is true only when every
// activity received a real candidate within the search budget.
type Solution struct {
	Choices         map[int]int `json:"choices"`
	Excluded        []int       `json:"excluded,omitempty"`
	Optimal         bool        `json:"optimal"`
	Nodes           int         `json:"nodes"`
	BudgetExhausted bool        `json:"budgetExhausted,omitempty"`
}

// Solver runs bounded backtracking search over activities.
type Solver struct {
	NodeBudget int
}

// NewSolver builds a solver with the given node budget; non-positive
// budgets fall back to the default.
func NewSolver(nodeBudget int) *Solver {
	if nodeBudget <= 0 {
		nodeBudget = defaultNodeBudget
	}
	return &Solver{NodeBudget: nodeBudget}
}

// Solve searches for an assignment of one candidate per activity with no
// pairwise overlaps, honouring hard constraints. Soft preferences are
// applied lexically: fewest distinct days first, then full min-break
// satisfaction, then candidates ordered for a tight daily window. When no
// complete assignment exists, activities are excluded most-constrained
// first until a feasible partial remains.
func (s *Solver) Solve(activities []Activity, cons ConstraintSet) (Solution, error) {
	if len(activities) == 0 {
		return Solution{}, ErrNoActivities
	}
	if err := cons.Validate(); err != nil {
		return Solution{}, err
	}

	run := newSearch(activities, cons, s.NodeBudget)

	if sol, ok := run.solveFull(); ok {
		sol.Optimal = true
		return sol, nil
	}
	if run.exhausted {
		return run.bestEffort(len(activities)), nil
	}

	// No complete assignment exists: shed activities starting with the
	// one that has the fewest feasible candidates.
	excluded := make(map[int]bool)
	for len(excluded) < len(activities) {
		next := run.mostConstrained(excluded)
		excluded[next] = true
		if sol, ok := run.solvePartial(excluded); ok {
			sol.Optimal = false
			sol.Excluded = sortedKeys(excluded)
			return sol, nil
		}
		if run.exhausted {
			break
		}
	}
	return run.bestEffort(len(activities)), nil
}

// search carries the per-invocation state of one Solve call.
type search struct {
	activities []Activity
	cons       ConstraintSet
	allowed    map[int]bool

	feasible [][]int // candidate indices surviving hard window checks
	order    []int   // activity visit order, most constrained first

	budget    int
	nodes     int
	exhausted bool

	best         map[int]int // deepest partial seen, kept for budget bailout
	bestExcluded map[int]bool
}

func newSearch(activities []Activity, cons ConstraintSet, budget int) *search {
	allowed := make(map[int]bool, len(cons.AllowedDays))
	for _, day := range cons.AllowedDays {
		allowed[day] = true
	}

	run := &search{
		activities: activities,
		cons:       cons,
		allowed:    allowed,
		budget:     budget,
		feasible:   make([][]int, len(activities)),
	}

	mask := modeMask(activities, cons.Mode)
	for i, act := range activities {
		for ci, cand := range act.Candidates {
			if len(cand.Slots) == 0 || !mask[i][ci] {
				continue
			}
			if run.withinWindow(cand) {
				run.feasible[i] = append(run.feasible[i], ci)
			}
		}
		run.orderCandidates(i)
	}

	run.order = make([]int, len(activities))
	for i := range run.order {
		run.order[i] = i
	}
	sort.SliceStable(run.order, func(a, b int) bool {
		return len(run.feasible[run.order[a]]) < len(run.feasible[run.order[b]])
	})

	return run
}

func (r *search) withinWindow(cand CandidateClass) bool {
	for _, slot := range cand.Slots {
		if !r.allowed[slot.Day] {
			return false
		}
		if slot.Start < r.cons.EarliestStart {
			return false
		}
		if slot.Start+slot.Duration > r.cons.LatestEnd {
			return false
		}
	}
	return true
}

// orderCandidates sorts an activity's feasible candidates to try late
// starters that finish early first, matching the tight-window preference.
func (r *search) orderCandidates(i int) {
	cands := r.activities[i].Candidates
	sort.SliceStable(r.feasible[i], func(a, b int) bool {
		ea, eb := latestEnd(cands[r.feasible[i][a]]), latestEnd(cands[r.feasible[i][b]])
		if ea != eb {
			return ea < eb
		}
		return earliestStart(cands[r.feasible[i][a]]) > earliestStart(cands[r.feasible[i][b]])
	})
}

func latestEnd(cand CandidateClass) float64 {
	var end float64
	for _, slot := range cand.Slots {
		if e := slot.Start + slot.Duration; e > end {
			end = e
		}
	}
	return end
}

func earliestStart(cand CandidateClass) float64 {
	start := midnightHour
	for _, slot := range cand.Slots {
		if slot.Start < start {
			start = slot.Start
		}
	}
	return start
}

// solveFull looks for a complete assignment. Day caps are tried from one
// upwards so the first hit uses the fewest distinct days, and within each
// cap a strict min-break pass runs before the relaxed one.
func (r *search) solveFull() (Solution, bool) {
	return r.solvePartial(nil)
}

// solvePartial searches one day-cap/break tier at a time. Within the
// first tier that admits any complete assignment, every completion is
// enumerated (bounded by the node budget) and the one with the tightest
// daily window wins.
func (r *search) solvePartial(excluded map[int]bool) (Solution, bool) {
	tiers := []bool{true}
	if r.cons.MinBreakHours > 0 {
		tiers = append(tiers, false)
	}
	for dayCap := 1; dayCap <= r.cons.MaxDaysOnCampus; dayCap++ {
		for _, strictBreak := range tiers {
			state := &assignState{
				choices:  make(map[int]int),
				usedDays: make(map[int]int),
			}
			r.descend(0, excluded, dayCap, strictBreak, state)
			if state.bestComplete != nil {
				return Solution{Choices: state.bestComplete, Nodes: r.nodes}, true
			}
			if r.exhausted {
				return Solution{}, false
			}
		}
	}
	return Solution{}, false
}

type assignState struct {
	choices   map[int]int
	committed []Slot
	usedDays  map[int]int

	bestComplete map[int]int
	bestMaxEnd   float64
	bestMinStart float64
}

func (r *search) descend(pos int, excluded map[int]bool, dayCap int, strictBreak bool, state *assignState) {
	if pos == len(r.order) {
		state.noteComplete()
		return
	}
	act := r.order[pos]
	if excluded != nil && excluded[act] {
		r.descend(pos+1, excluded, dayCap, strictBreak, state)
		return
	}

	for _, ci := range r.feasible[act] {
		r.nodes++
		if r.nodes > r.budget {
			r.exhausted = true
			r.snapshotBest(state, excluded)
			return
		}

		cand := r.activities[act].Candidates[ci]
		if !r.fits(cand, dayCap, strictBreak, state) {
			continue
		}

		state.choices[act] = ci
		state.committed = append(state.committed, cand.Slots...)
		for _, slot := range cand.Slots {
			state.usedDays[slot.Day]++
		}

		r.descend(pos+1, excluded, dayCap, strictBreak, state)
		if r.exhausted {
			return
		}

		delete(state.choices, act)
		state.committed = state.committed[:len(state.committed)-len(cand.Slots)]
		for _, slot := range cand.Slots {
			state.usedDays[slot.Day]--
			if state.usedDays[slot.Day] == 0 {
				delete(state.usedDays, slot.Day)
			}
		}
	}

	r.snapshotBest(state, excluded)
}

// noteComplete scores the current complete assignment: earlier finish
// first, then later start. The first assignment to reach a given score
// keeps it, so ties resolve deterministically by visit order.
func (s *assignState) noteComplete() {
	maxEnd, minStart := 0.0, midnightHour
	for _, slot := range s.committed {
		if e := slot.Start + slot.Duration; e > maxEnd {
			maxEnd = e
		}
		if slot.Start < minStart {
			minStart = slot.Start
		}
	}
	better := s.bestComplete == nil ||
		maxEnd < s.bestMaxEnd ||
		(maxEnd == s.bestMaxEnd && minStart > s.bestMinStart)
	if !better {
		return
	}
	s.bestComplete = make(map[int]int, len(s.choices))
	for act, ci := range s.choices {
		s.bestComplete[act] = ci
	}
	s.bestMaxEnd, s.bestMinStart = maxEnd, minStart
}

func (r *search) fits(cand CandidateClass, dayCap int, strictBreak bool, state *assignState) bool {
	newDays := make(map[int]struct{})
	for _, slot := range cand.Slots {
		if state.usedDays[slot.Day] == 0 {
			newDays[slot.Day] = struct{}{}
		}
	}
	if len(state.usedDays)+len(newDays) > dayCap {
		return false
	}

	for _, slot := range cand.Slots {
		for _, other := range state.committed {
			if Overlaps(slot.Interval(), other.Interval()) {
				return false
			}
			if strictBreak && r.cons.MinBreakHours > 0 && slot.Day == other.Day {
				if gapBetween(slot, other) < r.cons.MinBreakHours {
					return false
				}
			}
		}
	}
	return true
}

// gapBetween returns the free time between two non-overlapping same-day
// slots.
func gapBetween(a, b Slot) float64 {
	if a.Start >= b.Start+b.Duration {
		return a.Start - (b.Start + b.Duration)
	}
	return b.Start - (a.Start + a.Duration)
}

// snapshotBest keeps the deepest feasible partial for budget bailouts.
func (r *search) snapshotBest(state *assignState, excluded map[int]bool) {
	if len(state.choices) <= len(r.best) {
		return
	}
	r.best = make(map[int]int, len(state.choices))
	for act, ci := range state.choices {
		r.best[act] = ci
	}
	r.bestExcluded = excluded
}

// mostConstrained returns the not-yet-excluded activity with the fewest
// feasible candidates.
func (r *search) mostConstrained(excluded map[int]bool) int {
	bestAct, bestCount := -1, -1
	for _, act := range r.order {
		if excluded[act] {
			continue
		}
		if bestAct == -1 || len(r.feasible[act]) < bestCount {
			bestAct, bestCount = act, len(r.feasible[act])
		}
	}
	return bestAct
}

// bestEffort packages the deepest partial seen, used when the budget ran
// out or every activity had to be excluded.
func (r *search) bestEffort(total int) Solution {
	choices := make(map[int]int, len(r.best))
	for act, ci := range r.best {
		choices[act] = ci
	}
	var excludedList []int
	for act := 0; act < total; act++ {
		if _, ok := choices[act]; !ok {
			excludedList = append(excludedList, act)
		}
	}
	return Solution{
		Choices:         choices,
		Excluded:        excludedList,
		Optimal:         false,
		Nodes:           r.nodes,
		BudgetExhausted: r.exhausted,
	}
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
