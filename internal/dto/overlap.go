package dto

// OverlapQuery selects the pairwise report threshold in credit hours.
type OverlapQuery struct {
	Threshold int `form:"threshold" validate:"omitempty,min=1,max=60"`
}

// RankingQuery limits a per-student ranking.
type RankingQuery struct {
	Top int `form:"top" validate:"omitempty,min=1,max=100"`
}

// OverlapPairResponse is two students and the subjects they share.
type OverlapPairResponse struct {
	A        StudentSummary    `json:"a"`
	B        StudentSummary    `json:"b"`
	Hours    int               `json:"hours"`
	Subjects []SubjectResponse `json:"subjects"`
}

// OverlapGroupResponse groups pairs sharing the same number of hours.
type OverlapGroupResponse struct {
	Hours int                   `json:"hours"`
	Pairs []OverlapPairResponse `json:"pairs"`
}

// OverlapReportResponse is the pairwise report for one roster load.
type OverlapReportResponse struct {
	LoadID    string                 `json:"loadId"`
	Threshold int                    `json:"threshold"`
	PairCount int                    `json:"pairCount"`
	Groups    []OverlapGroupResponse `json:"groups"`
}

// RankingEntryResponse is one row of a student's overlap ranking.
type RankingEntryResponse struct {
	Rank     int               `json:"rank"`
	Student  StudentSummary    `json:"student"`
	Score    int               `json:"score"`
	Subjects []SubjectResponse `json:"subjects"`
}

// RankingResponse ranks other students by shared credit hours.
type RankingResponse struct {
	Student StudentSummary         `json:"student"`
	Entries []RankingEntryResponse `json:"entries"`
}
