package dto

// ClashPeriodRequest is one scheduled class period in the snapshot. Day
// and times are deliberately unvalidated here: a malformed period is
// skipped with a warning rather than failing the whole request.
type ClashPeriodRequest struct {
	ClassID    string   `json:"classId" validate:"required"`
	CourseCode string   `json:"courseCode" validate:"required"`
	Activity   string   `json:"activity" validate:"required"`
	Day        int      `json:"day"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Weeks      []int    `json:"weeks,omitempty"`
	Locations  []string `json:"locations,omitempty"`
}

// ClashEventRequest is one user-created event in the snapshot.
type ClashEventRequest struct {
	EventID string  `json:"eventId" validate:"required"`
	Name    string  `json:"name"`
	Day     int     `json:"day"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// ComputeClashesRequest carries the full normalized grid snapshot.
type ComputeClashesRequest struct {
	Classes []ClashPeriodRequest `json:"classes" validate:"dive"`
	Events  []ClashEventRequest  `json:"events" validate:"dive"`
}

// ClashGroupResponse lists the member IDs of one maximal clash run.
type ClashGroupResponse struct {
	Day     int      `json:"day"`
	ItemIDs []string `json:"itemIds"`
}

// PeriodHintResponse is the layout hint for one card instance.
type PeriodHintResponse struct {
	ID           string  `json:"id"`
	Day          int     `json:"day"`
	Start        float64 `json:"start"`
	WidthPercent float64 `json:"widthPercent"`
	SlotIndex    int     `json:"slotIndex"`
	Border       string  `json:"border"`
}

// IntegrityWarningResponse reports a skipped malformed item.
type IntegrityWarningResponse struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// ComputeClashesResponse returns groups, per-card hints and any
// data-integrity warnings.
type ComputeClashesResponse struct {
	Groups   []ClashGroupResponse       `json:"groups"`
	Hints    []PeriodHintResponse       `json:"hints"`
	Warnings []IntegrityWarningResponse `json:"warnings,omitempty"`
}
