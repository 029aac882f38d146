package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/gistly-app/gistly/internal/models"
)

// Service is the single facade through which the application talks to the
// backend: one method per logical operation. Every method resolves the
// operation's route, builds a single-use descriptor, delegates to the
// executor and decodes the typed result. Errors from the taxonomy pass
// through verbatim — no extra retries, no masking of Unauthorized /
// Forbidden / NotFound.
type Service struct {
	exec *Executor
}

func NewService(exec *Executor) *Service {
	return &Service{exec: exec}
}

// SetToken replaces the bearer token used for subsequent calls.
func (s *Service) SetToken(token string) { s.exec.SetToken(token) }

// SetBaseURL replaces the backend base URL used for subsequent calls.
func (s *Service) SetBaseURL(u string) { s.exec.SetBaseURL(u) }

func (s *Service) call(ctx context.Context, op Operation, params map[string]string, query url.Values, body any) ([]byte, error) {
	route, err := RouteFor(op)
	if err != nil {
		return nil, err
	}
	path, err := route.Path(params)
	if err != nil {
		return nil, ErrInvalidURL
	}
	return s.exec.Do(ctx, Descriptor{
		Op:     op,
		Method: route.Method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
}

func decode[T any](data []byte) (T, error) {
	var v T
	if len(data) == 0 {
		return v, ErrInvalidResponse
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, NewDecodingError(err)
	}
	return v, nil
}

// deleteResponse is the wire shape of delete acknowledgements. An empty body
// or an absent flag counts as success: the 2xx status is authoritative.
type deleteResponse struct {
	Success *bool `json:"success"`
}

func decodeSuccess(data []byte) (bool, error) {
	if len(data) == 0 {
		return true, nil
	}
	var r deleteResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return false, NewDecodingError(err)
	}
	return r.Success == nil || *r.Success, nil
}

// --- users ---

func (s *Service) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	data, err := s.call(ctx, OpCreateUser, nil, nil, user)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](data)
}

func (s *Service) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	data, err := s.call(ctx, OpUpdateUser, map[string]string{"userId": user.ID}, nil, user)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](data)
}

func (s *Service) DeleteUser(ctx context.Context, userID string) (bool, error) {
	data, err := s.call(ctx, OpDeleteUser, map[string]string{"userId": userID}, nil, nil)
	if err != nil {
		return false, err
	}
	return decodeSuccess(data)
}

// --- links (articles) ---

// StoreLink saves an article for the user. When autoCreateGist is set the
// backend also creates a companion gist for it.
func (s *Service) StoreLink(ctx context.Context, userID string, article models.Article, autoCreateGist bool) (models.Article, error) {
	q := url.Values{}
	q.Set("auto_gist", strconv.FormatBool(autoCreateGist))
	data, err := s.call(ctx, OpStoreLink, map[string]string{"userId": userID}, q, article)
	if err != nil {
		return models.Article{}, err
	}
	return decode[models.Article](data)
}

// UpdateLinkGistStatus replaces an article's gist-linkage status.
func (s *Service) UpdateLinkGistStatus(ctx context.Context, userID, articleID string, linkage models.GistLinkage) (models.Article, error) {
	body := map[string]any{
		"gist_created": linkage.Created,
		"gist_id":      linkage.GistID,
		"image_url":    linkage.ImageURL,
	}
	data, err := s.call(ctx, OpUpdateLinkGistStatus, map[string]string{"userId": userID, "articleId": articleID}, nil, body)
	if err != nil {
		return models.Article{}, err
	}
	return decode[models.Article](data)
}

func (s *Service) FetchLinks(ctx context.Context, userID string) ([]models.Article, error) {
	data, err := s.call(ctx, OpFetchLinks, map[string]string{"userId": userID}, nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]models.Article](data)
}

// --- gists ---

func (s *Service) CreateGist(ctx context.Context, userID string, gist models.Gist) (models.Gist, error) {
	data, err := s.call(ctx, OpCreateGist, map[string]string{"userId": userID}, nil, gist)
	if err != nil {
		return models.Gist{}, err
	}
	return decode[models.Gist](data)
}

// UpdateGist replaces a backend gist. The gist must carry its
// backend-assigned id; a gist the backend has not seen yet cannot be
// addressed and fails with ErrInvalidURL.
func (s *Service) UpdateGist(ctx context.Context, userID string, gist models.Gist) (models.Gist, error) {
	data, err := s.call(ctx, OpUpdateGist, map[string]string{"userId": userID, "gistId": gist.GistID}, nil, gist)
	if err != nil {
		return models.Gist{}, err
	}
	return decode[models.Gist](data)
}

func (s *Service) DeleteGist(ctx context.Context, userID, gistID string) (bool, error) {
	data, err := s.call(ctx, OpDeleteGist, map[string]string{"userId": userID, "gistId": gistID}, nil, nil)
	if err != nil {
		return false, err
	}
	return decodeSuccess(data)
}

// UpdateGistProductionStatus sends the full status payload.
func (s *Service) UpdateGistProductionStatus(ctx context.Context, userID, gistID string, status models.ProductionStatus) (models.Gist, error) {
	data, err := s.call(ctx, OpUpdateGistStatus, map[string]string{"userId": userID, "gistId": gistID}, nil, status)
	if err != nil {
		return models.Gist{}, err
	}
	return decode[models.Gist](data)
}

// SignalGistProduction is the empty-body signal variant: the backend applies
// its default in-review status (in production, "Reviewing Content").
func (s *Service) SignalGistProduction(ctx context.Context, userID, gistID string) (models.Gist, error) {
	data, err := s.call(ctx, OpSignalGistStatus, map[string]string{"userId": userID, "gistId": gistID}, nil, nil)
	if err != nil {
		return models.Gist{}, err
	}
	return decode[models.Gist](data)
}

func (s *Service) FetchGists(ctx context.Context, userID string) ([]models.Gist, error) {
	data, err := s.call(ctx, OpFetchGists, map[string]string{"userId": userID}, nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]models.Gist](data)
}

// --- categories ---

func (s *Service) FetchCategories(ctx context.Context) ([]models.Category, error) {
	data, err := s.call(ctx, OpFetchCategories, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]models.Category](data)
}

func (s *Service) FetchCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	data, err := s.call(ctx, OpFetchCategoryBySlug, map[string]string{"slug": slug}, nil, nil)
	if err != nil {
		return models.Category{}, err
	}
	return decode[models.Category](data)
}

func (s *Service) CreateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	data, err := s.call(ctx, OpCreateCategory, nil, nil, category)
	if err != nil {
		return models.Category{}, err
	}
	return decode[models.Category](data)
}

func (s *Service) UpdateCategory(ctx context.Context, category models.Category) (models.Category, error) {
	data, err := s.call(ctx, OpUpdateCategory, map[string]string{"slug": category.Slug}, nil, category)
	if err != nil {
		return models.Category{}, err
	}
	return decode[models.Category](data)
}
