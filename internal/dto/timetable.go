package dto

import "time"

// TimetableQuery narrows a student's timetable. Every field is optional;
// day, from and to accept aliases such as "월", "화요일" or "wed".
type TimetableQuery struct {
	Day        string `form:"day"`
	Period     int    `form:"period" validate:"omitempty,min=1,max=9"`
	From       string `form:"from"`
	To         string `form:"to"`
	PeriodFrom int    `form:"periodFrom" validate:"omitempty,min=1,max=9"`
	PeriodTo   int    `form:"periodTo" validate:"omitempty,min=1,max=9"`
}

// StudentListQuery pages through the roster.
type StudentListQuery struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=500"`
}

// TeacherResponse is a teacher with their classroom.
type TeacherResponse struct {
	Name      string `json:"name"`
	Classroom string `json:"classroom"`
}

// SubjectResponse describes one section of a course.
type SubjectResponse struct {
	Name        string            `json:"name"`
	Section     int               `json:"section"`
	CreditHours int               `json:"creditHours"`
	Category    string            `json:"category"`
	Color       string            `json:"color"`
	ActiveColor string            `json:"activeColor"`
	Teachers    []TeacherResponse `json:"teachers,omitempty"`
}

// StudentSummary is a roster row.
type StudentSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Subjects    int    `json:"subjects"`
	CreditHours int    `json:"creditHours"`
}

// StudentResponse is a student with the classes they take.
type StudentResponse struct {
	StudentSummary
	Classes []SubjectResponse `json:"classes"`
}

// CellResponse is one timetable cell; Subject is nil for a free period.
type CellResponse struct {
	Day     string           `json:"day"`
	DayName string           `json:"dayName"`
	Period  int              `json:"period"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Subject *SubjectResponse `json:"subject,omitempty"`
	Teacher *TeacherResponse `json:"teacher,omitempty"`
}

// TimetableResponse is a narrowed timetable view.
type TimetableResponse struct {
	StudentID int            `json:"studentId"`
	Name      string         `json:"name"`
	Days      []string       `json:"days"`
	Periods   []int          `json:"periods"`
	Scalar    bool           `json:"scalar"`
	Cells     []CellResponse `json:"cells"`
}

// BlockResponse is a run of identical consecutive periods.
type BlockResponse struct {
	StartPeriod int              `json:"startPeriod"`
	EndPeriod   int              `json:"endPeriod"`
	Length      int              `json:"length"`
	Start       string           `json:"start"`
	End         string           `json:"end"`
	Subject     *SubjectResponse `json:"subject,omitempty"`
	Teacher     *TeacherResponse `json:"teacher,omitempty"`
}

// DayBlocksResponse lists the blocks of one day.
type DayBlocksResponse struct {
	Day     string          `json:"day"`
	DayName string          `json:"dayName"`
	Blocks  []BlockResponse `json:"blocks"`
}

// RosterStatusResponse reports the installed roster.
type RosterStatusResponse struct {
	LoadID   string    `json:"loadId"`
	Grade    int       `json:"grade"`
	Students int       `json:"students"`
	Digest   string    `json:"digest"`
	LoadedAt time.Time `json:"loadedAt"`
}
