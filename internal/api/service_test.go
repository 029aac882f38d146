package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gistly-app/gistly/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory stand-in for the Gistly API, shaped after the
// endpoint table.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]models.User
	articles map[string][]models.Article // userID -> articles
	gists    map[string][]models.Gist    // userID -> gists
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    map[string]models.User{},
		articles: map[string][]models.Article{},
		gists:    map[string][]models.Gist{},
	}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		var u models.User
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u.Authenticated = true
		b.mu.Lock()
		b.users[u.ID] = u
		b.mu.Unlock()
		writeJSON(w, u)
	})

	mux.HandleFunc("POST /links/{userId}", func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userId")
		var a models.Article
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("auto_gist") == "true" {
			g := models.Gist{ID: models.NewLocalID(), GistID: "g-" + a.ID, Title: a.Title, Link: a.URL, CreatedAt: time.Now().UTC()}
			a.Linkage = models.GistLinkage{Created: true, GistID: g.GistID}
			b.mu.Lock()
			b.gists[userID] = append(b.gists[userID], g)
			b.mu.Unlock()
		}
		b.mu.Lock()
		b.articles[userID] = append(b.articles[userID], a)
		b.mu.Unlock()
		writeJSON(w, a)
	})

	mux.HandleFunc("GET /links/{userId}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.articles[r.PathValue("userId")]
		if list == nil {
			list = []models.Article{}
		}
		writeJSON(w, list)
	})

	mux.HandleFunc("PATCH /gists/{userId}/{gistId}/status", func(w http.ResponseWriter, r *http.Request) {
		userID, gistID := r.PathValue("userId"), r.PathValue("gistId")

		var status models.ProductionStatus
		if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
			// Empty body: signal variant, backend applies its default.
			status = models.ProductionStatus{InProduction: true, Status: models.StatusReviewing}
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		for i, g := range b.gists[userID] {
			if g.GistID == gistID {
				g.Status = status
				b.gists[userID][i] = g
				writeJSON(w, g)
				return
			}
		}
		http.NotFound(w, r)
	})

	mux.HandleFunc("GET /gists/{userId}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.gists[r.PathValue("userId")]
		if list == nil {
			list = []models.Gist{}
		}
		writeJSON(w, list)
	})

	mux.HandleFunc("DELETE /gists/{userId}/{gistId}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"success": true})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	srv := httptest.NewServer(newFakeBackend().handler())
	t.Cleanup(srv.Close)
	return NewService(newTestExecutor(srv.URL))
}

func TestScenario_CreateUserStoreArticleFetchArticles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, models.NewUser("Ada", "ada@example.com"))
	require.NoError(t, err)
	require.True(t, user.Authenticated)

	article := models.NewArticle("How Gistly Works", "https://example.com/how", "tech")
	stored, err := svc.StoreLink(ctx, user.ID, article, true)
	require.NoError(t, err)
	require.True(t, stored.Linkage.Created)
	require.NotEmpty(t, stored.Linkage.GistID)

	list, err := svc.FetchLinks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "How Gistly Works", list[0].Title)
}

func TestScenario_SignalVariantSetsReviewingStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, models.NewUser("Ada", "ada@example.com"))
	require.NoError(t, err)

	article := models.NewArticle("Piece", "https://example.com/p", "news")
	stored, err := svc.StoreLink(ctx, user.ID, article, true)
	require.NoError(t, err)

	updated, err := svc.SignalGistProduction(ctx, user.ID, stored.Linkage.GistID)
	require.NoError(t, err)
	require.True(t, updated.Status.InProduction)
	require.Equal(t, models.StatusReviewing, updated.Status.Status)

	gists, err := svc.FetchGists(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, gists, 1)
	require.True(t, gists[0].Status.InProduction)
	require.Equal(t, models.StatusReviewing, gists[0].Status.Status)
}

func TestService_DeleteGistSuccessFlag(t *testing.T) {
	svc := newTestService(t)

	ok, err := svc.DeleteGist(context.Background(), "u-1", "g-1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestService_UpdateGistWithoutBackendID(t *testing.T) {
	svc := newTestService(t)

	// Never issued by the backend, so it cannot be addressed.
	local := models.NewGist("T", "tech", "https://example.com")
	_, err := svc.UpdateGist(context.Background(), "u-1", local)
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestService_ErrorsPassThroughVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	svc := NewService(newTestExecutor(srv.URL))
	_, err := svc.FetchLinks(context.Background(), "u-1")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_MalformedBodyYieldsDecodingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	t.Cleanup(srv.Close)

	svc := NewService(newTestExecutor(srv.URL))
	_, err := svc.FetchCategories(context.Background())
	require.ErrorIs(t, err, ErrDecodingError)
}
