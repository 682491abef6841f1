package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// File types recorded for a project.
const (
	FileTypeHTML  = "html"
	FileTypeCSS   = "css"
	FileTypeImage = "image"
)

// GeneratedFile represents a row in the generated_files table. Path is the
// object store key.
type GeneratedFile struct {
	ID        string    `db:"id"`
	ProjectID string    `db:"project_id"`
	Type      string    `db:"type"`
	Path      string    `db:"path"`
	CreatedAt time.Time `db:"created_at"`
}

// FileStore is the sqlx-backed store for generated file records.
type FileStore struct {
	db *sqlx.DB
}

func NewFileStore(db *sqlx.DB) *FileStore {
	return &FileStore{db: db}
}

func (s *FileStore) q(query string) string { return s.db.Rebind(query) }

// Record registers path for projectID. Recording the same path twice returns
// the existing row.
func (s *FileStore) Record(ctx context.Context, projectID, fileType, path string) (*GeneratedFile, error) {
	f := &GeneratedFile{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Type:      fileType,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO generated_files (id, project_id, type, path, created_at) VALUES (?, ?, ?, ?, ?)
	`), f.ID, f.ProjectID, f.Type, f.Path, f.CreatedAt)
	if isUniqueConstraintError(err) {
		return s.get(ctx, projectID, path)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FileStore) get(ctx context.Context, projectID, path string) (*GeneratedFile, error) {
	var f GeneratedFile
	err := s.db.GetContext(ctx, &f, s.q(`
		SELECT * FROM generated_files WHERE project_id = ? AND path = ?
	`), projectID, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByProject returns the files of projectID ordered by path.
func (s *FileStore) ListByProject(ctx context.Context, projectID string) ([]*GeneratedFile, error) {
	var files []*GeneratedFile
	err := s.db.SelectContext(ctx, &files, s.q(`
		SELECT * FROM generated_files WHERE project_id = ? ORDER BY path ASC
	`), projectID)
	if err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteByProject removes every file record of projectID.
func (s *FileStore) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM generated_files WHERE project_id = ?`), projectID)
	return err
}
