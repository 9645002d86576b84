package timetable

// modeMask reports, per activity and candidate index, whether a candidate
// may be chosen under the requested delivery mode. An activity with no
// candidate in that mode keeps its full list: the activity must still be
// schedulable, so the other mode's offerings stand in. Hybrid (and the
// zero value) allows everything. The mask preserves candidate indices so
// Solution.Choices always refers to the caller's ordering.
func modeMask(activities []Activity, mode DeliveryMode) [][]bool {
	mask := make([][]bool, len(activities))
	for i, act := range activities {
		mask[i] = make([]bool, len(act.Candidates))
		anyMatch := false
		for ci, cand := range act.Candidates {
			if mode == "" || mode == ModeHybrid || cand.Mode == mode || cand.Mode == ModeHybrid {
				mask[i][ci] = true
				anyMatch = true
			}
		}
		if !anyMatch {
			for ci := range mask[i] {
				mask[i][ci] = true
			}
		}
	}
	return mask
}
