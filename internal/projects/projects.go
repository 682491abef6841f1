// Package projects ties the generation pipeline to persistence: project
// records in the database and documents in the object store.
package projects

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/joestump/sitegen/internal/generator"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/metrics"
	"github.com/joestump/sitegen/internal/objectstore"
	"github.com/joestump/sitegen/internal/prompt"
	"github.com/joestump/sitegen/internal/sanitize"
	"github.com/joestump/sitegen/internal/slug"
	"github.com/joestump/sitegen/internal/store"
)

const (
	indexFile  = "index.html"
	styleFile  = "style.css"
	scriptFile = "script.js"

	// Documents above this size are still sent for improvement but may not
	// fit a provider's context window.
	improveWarnBytes = 200000

	maxSlugAttempts = 3
)

// publishedFiles are copied to the site namespace on publish.
var publishedFiles = []string{indexFile, styleFile, scriptFile}

// ErrNoDocument is returned when a project has no usable index.html.
var ErrNoDocument = errors.New("project has no generated document")

// Generator is the pipeline the service drives. *generator.Generator
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) (*generator.Result, error)
	Improve(ctx context.Context, req generator.ImproveRequest) (*generator.Result, error)
}

// Detail is a project together with its stored documents.
type Detail struct {
	Project *store.Project
	HTML    string
	CSS     string
	Files   []*store.GeneratedFile
}

type Service struct {
	projects *store.ProjectStore
	files    *store.FileStore
	objects  objectstore.Store
	gen      Generator
	baseURL  string
	log      *logger.Logger
}

// NewService wires the service. baseURL prefixes published site URLs.
func NewService(projects *store.ProjectStore, files *store.FileStore, objects objectstore.Store, gen Generator, baseURL string, log *logger.Logger) *Service {
	return &Service{
		projects: projects,
		files:    files,
		objects:  objects,
		gen:      gen,
		baseURL:  strings.TrimRight(baseURL, "/"),
		log:      log.With("service", "projects"),
	}
}

// Create validates in, creates a draft project and generates its site. When
// generation fails the record and everything stored under it are removed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*store.Project, error) {
	v, err := in.validate()
	if err != nil {
		return nil, err
	}
	description := prompt.BuildDescription(v.form)

	p, err := s.createRecord(ctx, description, string(v.provider), in.Model)
	if err != nil {
		return nil, err
	}
	log := s.log.With("project_id", p.ID)

	req := generator.Request{
		Request:  v.request(description),
		Provider: v.provider,
		Model:    in.Model,
	}

	if v.image != nil {
		key, err := s.storeReference(ctx, p.ID, v.image)
		if err != nil {
			s.discard(ctx, p.ID)
			return nil, err
		}
		req.ReferenceImage.Path = key
	}

	res, err := s.gen.Generate(ctx, req)
	if err != nil {
		log.Warn("generation failed, removing project", "error", err)
		s.discard(ctx, p.ID)
		return nil, err
	}

	if err := s.putFile(ctx, p.ID, indexFile, store.FileTypeHTML, res.HTML); err != nil {
		s.discard(ctx, p.ID)
		return nil, err
	}
	if err := s.projects.SetGeneration(ctx, p.ID, res.ModelUsed, string(res.Persona)); err != nil {
		s.discard(ctx, p.ID)
		return nil, err
	}
	s.refreshGauge(ctx)

	log.Info("site generated", "model", res.ModelUsed, "persona", res.Persona, "html_length", len(res.HTML))
	return s.projects.GetByID(ctx, p.ID)
}

// Import creates a project from hand-written code. CSS and JS are inlined
// into a full document, or a minimal document is built around a fragment.
func (s *Service) Import(ctx context.Context, in ImportInput) (*store.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	description := prompt.BuildDescription(prompt.Form{
		WebsiteName: in.WebsiteName,
		Description: in.Description,
		IconLibrary: in.IconLibrary,
		Prompt:      importNote,
	})

	p, err := s.createRecord(ctx, description, "", "")
	if err != nil {
		return nil, err
	}

	if err := s.putFile(ctx, p.ID, indexFile, store.FileTypeHTML, MergeCode(in.HTML, in.CSS, in.JS)); err != nil {
		s.discard(ctx, p.ID)
		return nil, err
	}
	if strings.TrimSpace(in.CSS) != "" {
		if err := s.putFile(ctx, p.ID, styleFile, store.FileTypeCSS, in.CSS); err != nil {
			s.discard(ctx, p.ID)
			return nil, err
		}
	}
	s.refreshGauge(ctx)

	s.log.Info("project imported", "project_id", p.ID, "html", in.HTML != "", "css", in.CSS != "", "js", in.JS != "")
	return p, nil
}

// Improve rewrites the stored document according to an instruction. The
// original prompt on the record is left untouched.
func (s *Service) Improve(ctx context.Context, id string, in ImproveInput) (*store.Project, error) {
	provider, err := in.validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return nil, err
	}
	existing, err := s.document(ctx, id)
	if err != nil {
		return nil, err
	}

	log := s.log.With("project_id", id)
	if len(existing) > improveWarnBytes {
		log.Warn("document may exceed the provider context window", "html_length", len(existing), "max_recommended", improveWarnBytes)
	}

	res, err := s.gen.Improve(ctx, generator.ImproveRequest{
		ExistingHTML: existing,
		Instruction:  in.Instruction,
		Provider:     provider,
		Model:        in.Model,
	})
	if err != nil {
		return nil, err
	}
	if err := s.objects.Put(ctx, objectstore.ProjectKey(id, indexFile), []byte(res.HTML)); err != nil {
		return nil, fmt.Errorf("store improved document: %w", err)
	}
	if err := s.projects.Touch(ctx, id); err != nil {
		return nil, err
	}
	log.Info("site improved", "model", res.ModelUsed, "html_length", len(res.HTML))
	return s.projects.GetByID(ctx, id)
}

// UpdateCode overwrites the stored documents. A nil argument leaves that
// file alone.
func (s *Service) UpdateCode(ctx context.Context, id string, html, css *string) error {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return err
	}
	if html != nil {
		if err := s.putFile(ctx, id, indexFile, store.FileTypeHTML, *html); err != nil {
			return err
		}
	}
	if css != nil {
		if err := s.putFile(ctx, id, styleFile, store.FileTypeCSS, *css); err != nil {
			return err
		}
	}
	return s.projects.Touch(ctx, id)
}

// Get returns the project with its stored documents. Missing documents are
// returned empty.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Project: p}
	if d.HTML, err = s.optional(ctx, objectstore.ProjectKey(id, indexFile)); err != nil {
		return nil, err
	}
	if d.CSS, err = s.optional(ctx, objectstore.ProjectKey(id, styleFile)); err != nil {
		return nil, err
	}
	if d.Files, err = s.files.ListByProject(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns a page of projects, newest first, and the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*store.Project, int, error) {
	items, err := s.projects.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projects.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Delete removes the project, its stored files and its published site.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.objects.DeletePrefix(ctx, objectstore.ProjectPrefix(id)); err != nil {
		return fmt.Errorf("delete project files: %w", err)
	}
	if p.Status == store.StatusPublished {
		if err := s.objects.DeletePrefix(ctx, objectstore.SitePrefix(p.Slug)); err != nil {
			return fmt.Errorf("delete published site: %w", err)
		}
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshGauge(ctx)
	s.log.Info("project deleted", "project_id", id, "slug", p.Slug)
	return nil
}

// Publish copies the project's documents into its public site namespace,
// replacing any earlier copy, and marks the project published.
func (s *Service) Publish(ctx context.Context, id string) (*store.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.objects.Exists(ctx, objectstore.ProjectKey(id, indexFile))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoDocument
	}

	if err := s.objects.DeletePrefix(ctx, objectstore.SitePrefix(p.Slug)); err != nil {
		return nil, fmt.Errorf("clear published site: %w", err)
	}
	for _, name := range publishedFiles {
		data, err := s.objects.Get(ctx, objectstore.ProjectKey(id, name))
		if errors.Is(err, objectstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := s.objects.Put(ctx, objectstore.SiteKey(p.Slug, name), data); err != nil {
			return nil, fmt.Errorf("publish %s: %w", name, err)
		}
	}

	url := s.SiteURL(p.Slug)
	if err := s.projects.UpdateStatus(ctx, id, store.StatusPublished, url); err != nil {
		return nil, err
	}
	s.log.Info("project published", "project_id", id, "url", url)
	return s.projects.GetByID(ctx, id)
}

// SiteURL is the public address of a published site.
func (s *Service) SiteURL(slug string) string {
	return s.baseURL + "/sites/" + slug + "/" + indexFile
}

// Preview returns the stored document with the framework script present, so
// that manually edited code still renders.
func (s *Service) Preview(ctx context.Context, id string) (string, error) {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return "", err
	}
	html, err := s.document(ctx, id)
	if err != nil {
		return "", err
	}
	return sanitize.EnsureFrameworkScript(html), nil
}

// SiteFile reads one file of a published site. name defaults to index.html.
func (s *Service) SiteFile(ctx context.Context, siteSlug, name string) ([]byte, string, error) {
	if err := slug.Validate(siteSlug); err != nil {
		return nil, "", objectstore.ErrNotFound
	}
	if strings.Trim(name, "/") == "" {
		name = indexFile
	}
	key := objectstore.SiteKey(siteSlug, name)
	data, err := s.objects.Get(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return data, objectstore.ContentType(key), nil
}

func (s *Service) createRecord(ctx context.Context, description, provider, model string) (*store.Project, error) {
	for attempt := 1; ; attempt++ {
		p, err := s.projects.Create(ctx, store.NewProject{
			Slug:     slug.New(description),
			Prompt:   description,
			Provider: provider,
			Model:    model,
		})
		if errors.Is(err, store.ErrSlugTaken) && attempt < maxSlugAttempts {
			continue
		}
		return p, err
	}
}

func (s *Service) storeReference(ctx context.Context, projectID string, img *Upload) (string, error) {
	key := objectstore.ProjectKey(projectID, "reference/"+uuid.New().String()+imageExt(img))
	if err := s.objects.Put(ctx, key, img.Data); err != nil {
		return "", fmt.Errorf("store reference image: %w", err)
	}
	if _, err := s.files.Record(ctx, projectID, store.FileTypeImage, key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Service) putFile(ctx context.Context, projectID, name, fileType, content string) error {
	key := objectstore.ProjectKey(projectID, name)
	if err := s.objects.Put(ctx, key, []byte(content)); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	_, err := s.files.Record(ctx, projectID, fileType, key)
	return err
}

// document loads a non-blank index.html.
func (s *Service) document(ctx context.Context, id string) (string, error) {
	data, err := s.objects.Get(ctx, objectstore.ProjectKey(id, indexFile))
	if errors.Is(err, objectstore.ErrNotFound) {
		return "", ErrNoDocument
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", ErrNoDocument
	}
	return string(data), nil
}

func (s *Service) optional(ctx context.Context, key string) (string, error) {
	data, err := s.objects.Get(ctx, key)
	if errors.Is(err, objectstore.ErrNotFound) {
		return "", nil
	}
	return string(data), err
}

// discard removes a project that could not be completed. It runs detached
// from ctx so that a canceled request still cleans up.
func (s *Service) discard(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	if err := s.objects.DeletePrefix(ctx, objectstore.ProjectPrefix(id)); err != nil {
		s.log.Error("failed to remove project files", "project_id", id, "error", err)
	}
	if err := s.projects.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Error("failed to remove project record", "project_id", id, "error", err)
	}
}

func (s *Service) refreshGauge(ctx context.Context) {
	if n, err := s.projects.Count(ctx); err == nil {
		metrics.ProjectsTotal.Set(float64(n))
	}
}

func imageExt(img *Upload) string {
	if ext := strings.ToLower(path.Ext(img.Filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(img.ContentType); len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}
