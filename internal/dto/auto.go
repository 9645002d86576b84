package dto

// AutoSlotRequest is a single weekly session of a candidate class.
type AutoSlotRequest struct {
	Day      int     `json:"day" validate:"required,min=1,max=7"`
	Start    float64 `json:"start" validate:"min=0,max=24"`
	Duration float64 `json:"duration" validate:"required,gt=0"`
}

// AutoCandidateRequest is one offering of an activity.
type AutoCandidateRequest struct {
	ClassID string            `json:"classId" validate:"required"`
	Mode    string            `json:"mode" validate:"omitempty,oneof=hybrid in_person online"`
	Slots   []AutoSlotRequest `json:"slots" validate:"required,min=1,dive"`
}

// AutoActivityRequest groups the alternative offerings to choose among.
type AutoActivityRequest struct {
	CourseCode string                 `json:"courseCode" validate:"required"`
	Activity   string                 `json:"activity" validate:"required"`
	Candidates []AutoCandidateRequest `json:"candidates" validate:"required,min=1,dive"`
}

// AutoConstraintsRequest is the constraint set for one solver run.
type AutoConstraintsRequest struct {
	EarliestStart   float64 `json:"earliestStart" validate:"min=0,max=24"`
	LatestEnd       float64 `json:"latestEnd" validate:"required,min=0,max=24"`
	Days            []int   `json:"days" validate:"required,min=1,dive,min=1,max=7"`
	MinBreakHours   float64 `json:"minBreakHours" validate:"min=0"`
	MaxDaysOnCampus int     `json:"maxDaysOnCampus" validate:"required,min=1"`
	Mode            string  `json:"mode" validate:"omitempty,oneof=hybrid in_person online"`
}

// AutoTimetableRequest asks for one class (or none) per activity.
type AutoTimetableRequest struct {
	Activities  []AutoActivityRequest  `json:"activities" validate:"required,min=1,dive"`
	Constraints AutoConstraintsRequest `json:"constraints" validate:"required"`
}

// AutoChoiceResponse is the decision for one activity. Excluded entries
// carry no class or time.
type AutoChoiceResponse struct {
	CourseCode string  `json:"courseCode"`
	Activity   string  `json:"activity"`
	ClassID    string  `json:"classId,omitempty"`
	Day        int     `json:"day,omitempty"`
	Start      float64 `json:"start,omitempty"`
	Excluded   bool    `json:"excluded"`
}

// AutoTimetableResponse is the solver outcome. Generation supports
// last-request-wins on the caller side: responses with a generation older
// than the newest issued one should be discarded.
type AutoTimetableResponse struct {
	Generation      uint64               `json:"generation"`
	Stale           bool                 `json:"stale"`
	Choices         []AutoChoiceResponse `json:"choices"`
	Optimal         bool                 `json:"optimal"`
	Nodes           int                  `json:"nodes"`
	BudgetExhausted bool                 `json:"budgetExhausted,omitempty"`
}
