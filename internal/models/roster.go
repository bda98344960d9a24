package models

import "time"

// RosterSnapshot is one persisted roster load.
type RosterSnapshot struct {
	ID           string    `db:"id" json:"id"`
	Grade        int       `db:"grade" json:"grade"`
	StudentCount int       `db:"student_count" json:"student_count"`
	SourceDigest string    `db:"source_digest" json:"source_digest"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RosterStudent is a student row belonging to a snapshot.
type RosterStudent struct {
	SnapshotID  string `db:"snapshot_id"`
	StudentID   int    `db:"student_id"`
	Name        string `db:"name"`
	CreditHours int    `db:"credit_hours"`
}

// RosterCell is one occupied timetable cell of a persisted student.
type RosterCell struct {
	SnapshotID  string `db:"snapshot_id"`
	StudentID   int    `db:"student_id"`
	Day         int    `db:"day"`
	Period      int    `db:"period"`
	Subject     string `db:"subject"`
	Section     int    `db:"section"`
	CreditHours int    `db:"credit_hours"`
	Teacher     string `db:"teacher"`
	Classroom   string `db:"classroom"`
}
