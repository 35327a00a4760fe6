package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/recruitkit/recruitkit/model"
)

// Openings reads and writes job openings and their form schemas.
// The intake pipeline only uses Get, Schema and PersistInlineSchema;
// the rest serves the recruiter API.
type Openings struct {
	DB *sql.DB
}

func NewOpenings(db *sql.DB) *Openings { return &Openings{DB: db} }

// Get returns nil without error when the opening does not exist.
func (s *Openings) Get(ctx context.Context, id string) (*model.Opening, error) {
	o := model.Opening{ID: id}
	var sources string
	err := s.DB.QueryRowContext(ctx, `
		SELECT title, location, department, preferred_sources, duration_mins, created_at
		FROM opening
		WHERE id = ?`,
		id,
	).Scan(&o.Title, &o.Location, &o.Department, &sources, &o.DurationMins, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get opening: %w", err)
	}

	if err := json.Unmarshal([]byte(sources), &o.PreferredSources); err != nil {
		return nil, fmt.Errorf("get opening: parse preferred_sources: %w", err)
	}

	o.Schema, err = s.Schema(ctx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Schema returns the opening's saved questions in order, or nil when the
// opening has no form.
func (s *Openings) Schema(ctx context.Context, openingID string) ([]model.Question, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT qid, type, label, required, options, validation, page_break
		FROM form_question
		WHERE opening_id = ?
		ORDER BY pos`,
		openingID,
	)
	if err != nil {
		return nil, fmt.Errorf("get schema: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options, validation sql.NullString
		err = rows.Scan(&q.ID, &q.Type, &q.Label, &q.Required, &options, &validation, &q.PageBreak)
		if err != nil {
			return nil, fmt.Errorf("get schema: scan: %w", err)
		}
		if options.String != "" {
			if err := json.Unmarshal([]byte(options.String), &q.Options); err != nil {
				return nil, fmt.Errorf("get schema: parse options: %w", err)
			}
		}
		if validation.String != "" {
			if err := json.Unmarshal([]byte(validation.String), &q.Validation); err != nil {
				return nil, fmt.Errorf("get schema: parse validation: %w", err)
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// PersistInlineSchema replaces the opening's saved questions in one
// transaction. Used by the intake path when a submission carries its own
// schema; the recruiter-facing SaveForm goes through here too.
func (s *Openings) PersistInlineSchema(ctx context.Context, openingID string, questions []model.Question) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persist schema: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM form_question WHERE opening_id = ?`, openingID)
	if err != nil {
		return fmt.Errorf("persist schema: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_question (opening_id, pos, qid, type, label, required, options, validation, page_break)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist schema: prepare: %w", err)
	}
	defer stmt.Close()

	for i, q := range questions {
		var options, validation []byte
		if q.Options != nil {
			options, err = json.Marshal(q.Options)
			if err != nil {
				return fmt.Errorf("persist schema: options: %w", err)
			}
		}
		if q.Validation != nil {
			validation, err = json.Marshal(q.Validation)
			if err != nil {
				return fmt.Errorf("persist schema: validation: %w", err)
			}
		}
		_, err = stmt.ExecContext(ctx, openingID, i, q.ID, q.Type, q.Label, q.Required, string(options), string(validation), q.PageBreak)
		if err != nil {
			return fmt.Errorf("persist schema: insert: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO form (opening_id) VALUES (?)
		ON CONFLICT (opening_id) DO NOTHING`,
		openingID,
	)
	if err != nil {
		return fmt.Errorf("persist schema: form row: %w", err)
	}

	return tx.Commit()
}

func (s *Openings) Create(ctx context.Context, o *model.Opening) error {
	sources, err := json.Marshal(o.PreferredSources)
	if err != nil {
		return fmt.Errorf("create opening: sources: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO opening (id, title, location, department, preferred_sources, duration_mins, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Title, o.Location, o.Department, string(sources), o.DurationMins, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create opening: %w", err)
	}
	return nil
}

func (s *Openings) List(ctx context.Context) ([]model.Opening, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, location, department, preferred_sources, duration_mins, created_at
		FROM opening
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list openings: %w", err)
	}
	defer rows.Close()

	openings := []model.Opening{}
	for rows.Next() {
		var o model.Opening
		var sources string
		err = rows.Scan(&o.ID, &o.Title, &o.Location, &o.Department, &sources, &o.DurationMins, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list openings: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(sources), &o.PreferredSources); err != nil {
			return nil, fmt.Errorf("list openings: parse preferred_sources: %w", err)
		}
		openings = append(openings, o)
	}
	return openings, rows.Err()
}

func (s *Openings) Update(ctx context.Context, o *model.Opening) error {
	sources, err := json.Marshal(o.PreferredSources)
	if err != nil {
		return fmt.Errorf("update opening: sources: %w", err)
	}
	res, err := s.DB.ExecContext(ctx, `
		UPDATE opening
		SET title = ?, location = ?, department = ?, preferred_sources = ?, duration_mins = ?
		WHERE id = ?`,
		o.Title, o.Location, o.Department, string(sources), o.DurationMins, o.ID,
	)
	if err != nil {
		return fmt.Errorf("update opening: %w", err)
	}
	return requireRow(res)
}

func (s *Openings) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM opening WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete opening: %w", err)
	}
	return requireRow(res)
}

// Form assembles the opening's form with its publication metadata.
// Returns nil when the opening has never had a form saved.
func (s *Openings) Form(ctx context.Context, openingID string) (*model.Form, error) {
	questions, err := s.Schema(ctx, openingID)
	if err != nil {
		return nil, err
	}

	form := model.Form{
		OpeningID: openingID,
		Questions: questions,
		Meta:      model.FormMeta{CoreFields: model.CoreFieldLabels(questions)},
	}

	var publishedAt sql.NullTime
	var shareLinks string
	err = s.DB.QueryRowContext(ctx, `
		SELECT form_id, is_published, published_at, generic_link, share_links
		FROM form
		WHERE opening_id = ?`,
		openingID,
	).Scan(&form.Meta.FormID, &form.Meta.IsPublished, &publishedAt, &form.Meta.GenericLink, &shareLinks)
	if errors.Is(err, sql.ErrNoRows) {
		if questions == nil {
			return nil, nil
		}
		return &form, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}

	if publishedAt.Valid {
		form.Meta.PublishedAt = &publishedAt.Time
	}
	if err := json.Unmarshal([]byte(shareLinks), &form.Meta.ShareLinks); err != nil {
		return nil, fmt.Errorf("get form: parse share_links: %w", err)
	}
	return &form, nil
}

// Publish marks the form published and records its share links.
func (s *Openings) Publish(ctx context.Context, openingID, formID, genericLink string, shareLinks map[string]string, at time.Time) error {
	links, err := json.Marshal(shareLinks)
	if err != nil {
		return fmt.Errorf("publish form: links: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO form (opening_id, form_id, is_published, published_at, generic_link, share_links)
		VALUES (?, ?, 1, ?, ?, ?)
		ON CONFLICT (opening_id) DO UPDATE
		SET form_id = excluded.form_id,
			is_published = 1,
			published_at = excluded.published_at,
			generic_link = excluded.generic_link,
			share_links = excluded.share_links`,
		openingID, formID, at, genericLink, string(links),
	)
	if err != nil {
		return fmt.Errorf("publish form: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
