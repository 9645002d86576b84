package dto

// SelectionRequest pins one chosen class period to a saved timetable.
type SelectionRequest struct {
	CourseCode string   `json:"courseCode" validate:"required"`
	Activity   string   `json:"activity" validate:"required"`
	ClassID    string   `json:"classId" validate:"required"`
	Day        int      `json:"day" validate:"required,min=1,max=7"`
	Start      float64  `json:"start" validate:"min=0,max=24"`
	End        float64  `json:"end" validate:"min=0,max=24"`
	Weeks      []int    `json:"weeks,omitempty"`
	Locations  []string `json:"locations,omitempty"`
}

// EventRequest creates or replaces a custom event on a timetable.
type EventRequest struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Color string  `json:"color" validate:"omitempty,hexcolor"`
	Day   int     `json:"day" validate:"required,min=1,max=7"`
	Start float64 `json:"start" validate:"min=0,max=24"`
	End   float64 `json:"end" validate:"min=0,max=24"`
}

// CreateTimetableRequest saves a full plan.
type CreateTimetableRequest struct {
	Name       string             `json:"name" validate:"required,max=120"`
	TermCode   string             `json:"termCode" validate:"required,max=16"`
	Selections []SelectionRequest `json:"selections" validate:"dive"`
	Events     []EventRequest     `json:"events" validate:"dive"`
}

// UpdateTimetableRequest renames a plan and replaces its contents.
type UpdateTimetableRequest struct {
	Name       string             `json:"name" validate:"required,max=120"`
	Selections []SelectionRequest `json:"selections" validate:"dive"`
	Events     []EventRequest     `json:"events" validate:"dive"`
}

// TimetableQuery filters saved timetable listings.
type TimetableQuery struct {
	TermCode string `form:"termCode" json:"termCode"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}

// SelectionResponse mirrors a stored class selection.
type SelectionResponse struct {
	ID         string   `json:"id"`
	CourseCode string   `json:"courseCode"`
	Activity   string   `json:"activity"`
	ClassID    string   `json:"classId"`
	Day        int      `json:"day"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Weeks      []int    `json:"weeks,omitempty"`
	Locations  []string `json:"locations,omitempty"`
}

// EventResponse mirrors a stored event.
type EventResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Day   int     `json:"day"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TimetableResponse is a full saved plan.
type TimetableResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	TermCode   string              `json:"termCode"`
	Selections []SelectionResponse `json:"selections"`
	Events     []EventResponse     `json:"events"`
}
