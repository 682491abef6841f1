package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/joestump/sitegen/internal/api"
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

const modelReply = "Tentu! Berikut websitenya:\n```html\n<!DOCTYPE html>\n<html lang=\"id\">\n<head><title>Toko Kue</title></head>\n<body><section><h1>Kue Ceria</h1></section></body>\n</html>\n```"

// fakeLLM answers every dispatch with text, or fails with err.
type fakeLLM struct {
	text  string
	err   error
	calls int
	last  prompt.Composed
}

func (f *fakeLLM) Dispatch(_ context.Context, composed prompt.Composed, provider llm.Provider, _ *llm.Image, modelOverride string) (*llm.Completion, error) {
	f.calls++
	f.last = composed
	if f.err != nil {
		return nil, f.err
	}
	model := modelOverride
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	return &llm.Completion{Text: f.text, Model: model}, nil
}

func (f *fakeLLM) DefaultProvider() llm.Provider { return llm.ProviderOpenRouter }

// testEnv holds the router and the stores behind it.
type testEnv struct {
	Router   http.Handler
	LLM      *fakeLLM
	Service  *projects.Service
	Projects *store.ProjectStore
	Objects  objectstore.Store
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores and a fake provider.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	fake := &fakeLLM{text: modelReply}
	ps := store.NewProjectStore(db)
	objects := objectstore.NewMemStore()
	svc := projects.NewService(ps, store.NewFileStore(db), objects, generator.New(fake, logger.Nop()), "http://localhost:8080", logger.Nop())

	sm := session.NewManager(db, "sqlite3", time.Hour, false)
	router := api.NewAPIRouter(api.Deps{
		Projects: svc,
		Flash:    session.NewFlasher(sm),
		Log:      logger.Nop(),
	})

	return &testEnv{
		Router:   sm.LoadAndSave(router),
		LLM:      fake,
		Service:  svc,
		Projects: ps,
		Objects:  objects,
	}
}

// seedProject creates a generated project through the service.
func seedProject(t *testing.T, env *testEnv) *store.Project {
	t.Helper()
	p, err := env.Service.Create(context.Background(), projects.CreateInput{
		WebsiteName: "Kopi Senja",
		Description: "Kedai kopi di Bandung",
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}
