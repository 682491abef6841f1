package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joestump/sitegen/internal/generator"
	"github.com/joestump/sitegen/internal/llm"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/objectstore"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/prompt"
	"github.com/joestump/sitegen/internal/session"
	"github.com/joestump/sitegen/internal/store"
	"github.com/joestump/sitegen/internal/testutil"
)

type stubLLM struct{}

func (stubLLM) Dispatch(context.Context, prompt.Composed, llm.Provider, *llm.Image, string) (*llm.Completion, error) {
	return &llm.Completion{
		Text:  "```html\n<!DOCTYPE html><html><head><title>Kopi</title></head><body><h1>Kopi Senja</h1></body></html>\n```",
		Model: "anthropic/claude-3.5-sonnet",
	}, nil
}

func (stubLLM) DefaultProvider() llm.Provider { return llm.ProviderOpenRouter }

type routerTestEnv struct {
	router  http.Handler
	svc     *projects.Service
	objects objectstore.Store
}

func newRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	objects := objectstore.NewMemStore()
	svc := projects.NewService(store.NewProjectStore(db), store.NewFileStore(db), objects,
		generator.New(stubLLM{}, logger.Nop()), "http://localhost:8080", logger.Nop())

	router := NewRouter(Deps{
		SessionManager: session.NewManager(db, "sqlite3", time.Hour, false),
		Projects:       svc,
		Log:            logger.Nop(),
	})
	return &routerTestEnv{router: router, svc: svc, objects: objects}
}

func (e *routerTestEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (e *routerTestEnv) seed(t *testing.T) *store.Project {
	t.Helper()
	p, err := e.svc.Create(context.Background(), projects.CreateInput{Prompt: "kedai kopi senja"})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func TestRouter_Healthz(t *testing.T) {
	env := newRouterTestEnv(t)
	rec := env.get(t, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	env := newRouterTestEnv(t)
	env.seed(t)

	rec := env.get(t, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sitegen_generations_total") {
		t.Errorf("generation counter not exported")
	}
}

func TestRouter_Preview(t *testing.T) {
	env := newRouterTestEnv(t)
	p := env.seed(t)

	rec := env.get(t, "/preview/"+p.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	for header, want := range map[string]string{
		"Content-Type":           "text/html; charset=utf-8",
		"X-Frame-Options":        "SAMEORIGIN",
		"X-Content-Type-Options": "nosniff",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if !strings.Contains(rec.Body.String(), "Kopi Senja") {
		t.Errorf("preview body = %q", rec.Body.String())
	}

	if rec := env.get(t, "/preview/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing project: status = %d, want 404", rec.Code)
	}
}

func TestRouter_PublishedSite(t *testing.T) {
	env := newRouterTestEnv(t)
	p := env.seed(t)

	if rec := env.get(t, "/sites/"+p.Slug+"/index.html"); rec.Code != http.StatusNotFound {
		t.Errorf("unpublished site: status = %d, want 404", rec.Code)
	}
	if _, err := env.svc.Publish(context.Background(), p.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for _, path := range []string{"/sites/" + p.Slug + "/index.html", "/sites/" + p.Slug + "/"} {
		rec := env.get(t, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s: Content-Type = %q", path, ct)
		}
	}

	rec := env.get(t, "/sites/"+p.Slug)
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/sites/"+p.Slug+"/" {
		t.Errorf("bare slug: status = %d, location %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec := env.get(t, "/sites/"+p.Slug+"/missing.css"); rec.Code != http.StatusNotFound {
		t.Errorf("missing file: status = %d, want 404", rec.Code)
	}
}

func TestRouter_MountsAPI(t *testing.T) {
	env := newRouterTestEnv(t)
	env.seed(t)

	rec := env.get(t, "/api/v1/projects")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
