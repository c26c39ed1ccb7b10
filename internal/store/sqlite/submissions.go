package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
)

// submissionColumns is the ordered list of columns selected in submission
// queries. Must match the scan order in scanSubmission.
const submissionColumns = `id, user_id, payload, status, notes, agent_id, reviewed_by,
	reviewed_at, created_at, updated_at`

// scanSubmission scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Submission.
func scanSubmission(scanner interface{ Scan(dest ...any) error }) (*domain.Submission, error) {
	var sub domain.Submission

	var (
		payload    string
		status     string
		agentID    sql.NullInt64
		reviewedAt sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&sub.ID,
		&sub.UserID,
		&payload,
		&status,
		&sub.Notes,
		&agentID,
		&sub.ReviewedBy,
		&reviewedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &sub.Payload); err != nil {
		return nil, err
	}

	sub.Status = domain.SubmissionStatus(status)
	if agentID.Valid {
		sub.AgentID = &agentID.Int64
	}

	sub.ReviewedAt, err = parseNullableTime(reviewedAt)
	if err != nil {
		return nil, err
	}
	sub.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sub.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

// CreateSubmission inserts a new submission and assigns its generated ID.
func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	payload, err := json.Marshal(sub.Payload)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (user_id, payload, status, notes, agent_id, reviewed_by,
			reviewed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.UserID,
		string(payload),
		string(sub.Status),
		sub.Notes,
		nullInt64(sub.AgentID),
		sub.ReviewedBy,
		nullTimeString(sub.ReviewedAt),
		formatTime(sub.CreatedAt),
		formatTime(sub.UpdatedAt),
	)
	if err != nil {
		return err
	}
	sub.ID, err = res.LastInsertId()
	return err
}

// GetSubmission retrieves a submission by ID.
// Returns store.ErrNotFound if the submission does not exist.
func (s *Store) GetSubmission(ctx context.Context, id int64) (*domain.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)

	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubmission persists a submission's moderation fields.
// Returns store.ErrNotFound if the submission does not exist.
func (s *Store) UpdateSubmission(ctx context.Context, sub *domain.Submission) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET
			status = ?, notes = ?, agent_id = ?, reviewed_by = ?, reviewed_at = ?,
			updated_at = ?
		WHERE id = ?`,
		string(sub.Status),
		sub.Notes,
		nullInt64(sub.AgentID),
		sub.ReviewedBy,
		nullTimeString(sub.ReviewedAt),
		formatTime(sub.UpdatedAt),
		sub.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListSubmissions returns a page of submissions newest first, optionally
// filtered by status, plus the total match count before pagination.
func (s *Store) ListSubmissions(ctx context.Context, f store.SubmissionFilter) ([]*domain.Submission, int64, error) {
	where := ""
	var args []any
	if f.Status != "" {
		where = " WHERE status = ?"
		args = append(args, f.Status)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM submissions"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + submissionColumns + " FROM submissions" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []*domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		subs = append(subs, sub)
	}
	return subs, total, rows.Err()
}
