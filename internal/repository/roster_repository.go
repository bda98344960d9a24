package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// rosterBatchSize keeps a multi-row insert under the Postgres bind limit.
const rosterBatchSize = 500

// RosterRepository persists resolved roster snapshots.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// SaveSnapshot writes a snapshot with its students and occupied cells in one transaction.
func (r *RosterRepository) SaveSnapshot(ctx context.Context, snapshot *models.RosterSnapshot, students []models.RosterStudent, cells []models.RosterCell) (err error) {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}
	for i := range students {
		students[i].SnapshotID = snapshot.ID
	}
	for i := range cells {
		cells[i].SnapshotID = snapshot.ID
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const snapshotQuery = `INSERT INTO roster_snapshots (id, grade, student_count, source_digest, created_at)
VALUES (:id, :grade, :student_count, :source_digest, :created_at)`
	if _, err = tx.NamedExecContext(ctx, snapshotQuery, snapshot); err != nil {
		return fmt.Errorf("insert roster snapshot: %w", err)
	}

	const studentQuery = `INSERT INTO roster_students (snapshot_id, student_id, name, credit_hours)
VALUES (:snapshot_id, :student_id, :name, :credit_hours)`
	for start := 0; start < len(students); start += rosterBatchSize {
		end := min(start+rosterBatchSize, len(students))
		if _, err = tx.NamedExecContext(ctx, studentQuery, students[start:end]); err != nil {
			return fmt.Errorf("insert roster students: %w", err)
		}
	}

	const cellQuery = `INSERT INTO roster_cells (snapshot_id, student_id, day, period, subject, section, credit_hours, teacher, classroom)
VALUES (:snapshot_id, :student_id, :day, :period, :subject, :section, :credit_hours, :teacher, :classroom)`
	for start := 0; start < len(cells); start += rosterBatchSize {
		end := min(start+rosterBatchSize, len(cells))
		if _, err = tx.NamedExecContext(ctx, cellQuery, cells[start:end]); err != nil {
			return fmt.Errorf("insert roster cells: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit roster snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently stored snapshot.
func (r *RosterRepository) LatestSnapshot(ctx context.Context) (*models.RosterSnapshot, error) {
	const query = `SELECT id, grade, student_count, source_digest, created_at
FROM roster_snapshots ORDER BY created_at DESC LIMIT 1`
	var snapshot models.RosterSnapshot
	if err := r.db.GetContext(ctx, &snapshot, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no roster snapshot stored")
		}
		return nil, fmt.Errorf("get latest roster snapshot: %w", err)
	}
	return &snapshot, nil
}

// ListSnapshots returns snapshots newest first.
func (r *RosterRepository) ListSnapshots(ctx context.Context, limit int) ([]models.RosterSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, grade, student_count, source_digest, created_at
FROM roster_snapshots ORDER BY created_at DESC LIMIT $1`
	var snapshots []models.RosterSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, limit); err != nil {
		return nil, fmt.Errorf("list roster snapshots: %w", err)
	}
	return snapshots, nil
}

// StudentCells returns the stored cells of one student ordered by day and period.
func (r *RosterRepository) StudentCells(ctx context.Context, snapshotID string, studentID int) ([]models.RosterCell, error) {
	const query = `SELECT snapshot_id, student_id, day, period, subject, section, credit_hours, teacher, classroom
FROM roster_cells WHERE snapshot_id = $1 AND student_id = $2 ORDER BY day, period`
	var cells []models.RosterCell
	if err := r.db.SelectContext(ctx, &cells, query, snapshotID, studentID); err != nil {
		return nil, fmt.Errorf("list roster cells: %w", err)
	}
	return cells, nil
}
