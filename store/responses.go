package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/recruitkit/recruitkit/model"
)

// Responses appends and reads candidate submissions. Appends serialize on
// a process-wide mutex so readers observe insertion order.
type Responses struct {
	DB *sql.DB

	mu sync.Mutex
}

func NewResponses(db *sql.DB) *Responses { return &Responses{DB: db} }

func (s *Responses) Append(ctx context.Context, r *model.Response) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("append response: answers: %w", err)
	}

	var resumeLink sql.NullString
	if r.ResumeLink != "" {
		resumeLink = sql.NullString{String: r.ResumeLink, Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO response (id, opening_id, opening_title, source, full_name, email, phone, college, resume_link, answers, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OpeningID, r.OpeningTitle, r.Source,
		r.FullName, r.Email, r.Phone, r.College,
		resumeLink, string(answers), r.Status, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append response: %w", err)
	}
	return nil
}

// List returns the opening's responses in insertion order. An empty status
// matches all.
func (s *Responses) List(ctx context.Context, openingID, status string) ([]model.Response, error) {
	query := `
		SELECT id, opening_id, opening_title, source, full_name, email, phone, college, resume_link, answers, status, created_at
		FROM response
		WHERE opening_id = ?`
	args := []any{openingID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY rowid`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	responses := []model.Response{}
	for rows.Next() {
		var r model.Response
		var resumeLink sql.NullString
		var answers string
		err = rows.Scan(
			&r.ID, &r.OpeningID, &r.OpeningTitle, &r.Source,
			&r.FullName, &r.Email, &r.Phone, &r.College,
			&resumeLink, &answers, &r.Status, &r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list responses: scan: %w", err)
		}
		r.ResumeLink = resumeLink.String
		if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
			return nil, fmt.Errorf("list responses: parse answers: %w", err)
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func (s *Responses) Get(ctx context.Context, id string) (*model.Response, error) {
	var r model.Response
	var resumeLink sql.NullString
	var answers string
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, opening_id, opening_title, source, full_name, email, phone, college, resume_link, answers, status, created_at
		FROM response
		WHERE id = ?`,
		id,
	).Scan(
		&r.ID, &r.OpeningID, &r.OpeningTitle, &r.Source,
		&r.FullName, &r.Email, &r.Phone, &r.College,
		&resumeLink, &answers, &r.Status, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get response: %w", err)
	}
	r.ResumeLink = resumeLink.String
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return nil, fmt.Errorf("get response: parse answers: %w", err)
	}
	return &r, nil
}

func (s *Responses) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE response SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update response status: %w", err)
	}
	return requireRow(res)
}
