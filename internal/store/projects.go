package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Project statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Project represents a row in the projects table.
type Project struct {
	ID         string    `db:"id"`
	Slug       string    `db:"slug"`
	Prompt     string    `db:"prompt"`
	Provider   string    `db:"provider"`
	Model      string    `db:"model"`
	Persona    string    `db:"persona"`
	Status     string    `db:"status"`
	PreviewURL string    `db:"preview_url"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// NewProject holds the fields supplied when a project is created.
type NewProject struct {
	Slug     string
	Prompt   string
	Provider string
	Model    string
}

// ProjectStore is the sqlx-backed store for projects.
type ProjectStore struct {
	db *sqlx.DB
}

func NewProjectStore(db *sqlx.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *ProjectStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a draft project. It returns ErrSlugTaken when the slug is in use.
func (s *ProjectStore) Create(ctx context.Context, p NewProject) (*Project, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO projects (id, slug, prompt, provider, model, persona, status, preview_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, '', ?, ?)
	`), id, p.Slug, p.Prompt, p.Provider, p.Model, StatusDraft, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the project matching id, or ErrNotFound.
func (s *ProjectStore) GetByID(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.db.GetContext(ctx, &p, s.q(`SELECT * FROM projects WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns the project matching slug, or ErrNotFound.
func (s *ProjectStore) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	var p Project
	err := s.db.GetContext(ctx, &p, s.q(`SELECT * FROM projects WHERE slug = ?`), slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns projects newest first.
func (s *ProjectStore) List(ctx context.Context, limit, offset int) ([]*Project, error) {
	if limit <= 0 {
		limit = 50
	}
	var projects []*Project
	err := s.db.SelectContext(ctx, &projects, s.q(`
		SELECT * FROM projects ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
	`), limit, offset)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateStatus sets the status and the URL the project is served at.
func (s *ProjectStore) UpdateStatus(ctx context.Context, id, status, previewURL string) error {
	return s.update(ctx, `UPDATE projects SET status = ?, preview_url = ?, updated_at = ? WHERE id = ?`,
		status, previewURL, time.Now().UTC(), id)
}

// SetGeneration records which model and persona produced the current document.
func (s *ProjectStore) SetGeneration(ctx context.Context, id, model, persona string) error {
	return s.update(ctx, `UPDATE projects SET model = ?, persona = ?, updated_at = ? WHERE id = ?`,
		model, persona, time.Now().UTC(), id)
}

// Touch bumps updated_at after the stored document changed.
func (s *ProjectStore) Touch(ctx context.Context, id string) error {
	return s.update(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
}

// Delete removes a project. Its generated_files rows go with it.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM generated_files WHERE project_id = ?`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Count returns the total number of projects.
func (s *ProjectStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM projects`); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *ProjectStore) update(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
