package domain

import "time"

// SyncRecord marks a submission as mirrored into the linked repository.
// Records are append-only and written only after both files of a submission
// are confirmed written; a record with Pushed=true is never retried.
type SyncRecord struct {
	SubmissionID int64      `db:"submission_id"`
	ContestID    int64      `db:"contest_id"`
	ProblemIndex string     `db:"problem_index"`
	ProblemName  string     `db:"problem_name"`
	Pushed       bool       `db:"pushed"`
	PushedAt     *time.Time `db:"pushed_at"`
}

type SyncRecordTable struct {
	SubmissionID string
	ContestID    string
	ProblemIndex string
	ProblemName  string
	Pushed       string
	PushedAt     string
}

func GetSyncRecordTable() SyncRecordTable {
	return SyncRecordTable{
		SubmissionID: "submission_id",
		ContestID:    "contest_id",
		ProblemIndex: "problem_index",
		ProblemName:  "problem_name",
		Pushed:       "pushed",
		PushedAt:     "pushed_at",
	}
}

func (SyncRecordTable) TableName() string {
	return "synced_submissions"
}

// NewSyncRecord creates a pushed record for a submission
func NewSyncRecord(s *Submission) *SyncRecord {
	now := time.Now()
	return &SyncRecord{
		SubmissionID: s.SubmissionID,
		ContestID:    s.ContestID,
		ProblemIndex: s.ProblemIndex,
		ProblemName:  s.ProblemName,
		Pushed:       true,
		PushedAt:     &now,
	}
}
