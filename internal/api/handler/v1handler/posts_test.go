package v1handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"blogbrain/internal/api/handler/v1handler"
	mockgenerator "blogbrain/internal/generator/mock"
	"blogbrain/pkg/domain"
	"blogbrain/pkg/logger"
	"blogbrain/pkg/serrors"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func newTestHandler(t *testing.T) (*v1handler.Handler, *mockgenerator.MockGenerator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	gen := mockgenerator.NewMockGenerator(ctrl)

	return v1handler.New(v1handler.Deps{Generator: gen}), gen
}

func completedPost(id domain.PostID) *domain.Post {
	return &domain.Post{
		ID:             id,
		Topic:          "observability for ml pipelines",
		TargetAudience: "platform engineers",
		Tone:           domain.ToneTechnical,
		Status:         domain.PostStatusCompleted,
		Article: domain.Article{
			Metadata: domain.ArticleMetadata{
				SEOTitle: "Observability for ML Pipelines",
				Slug:     "observability-for-ml-pipelines",
			},
			Content: domain.ArticleContent{HTMLBody: "<h1>Observability</h1>"},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func doRequest(h *v1handler.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.Mux().ServeHTTP(rec, req)

	return rec
}

func TestCreatePost(t *testing.T) {
	h, gen := newTestHandler(t)

	id := domain.PostID(uuid.New())
	gen.EXPECT().
		Enqueue(gomock.Any(), domain.GenerationRequest{
			Topic:           "ai agents in production",
			TargetAudience:  "engineering leaders",
			Tone:            domain.ToneProfessional,
			ExcludeKeywords: []string{"revolutionary"},
		}).
		Return(&domain.Post{
			ID:             id,
			Topic:          "ai agents in production",
			TargetAudience: "engineering leaders",
			Tone:           domain.ToneProfessional,
			Status:         domain.PostStatusPending,
			CreatedAt:      time.Now().UTC(),
		}, nil)

	rec := doRequest(h, http.MethodPost, "/v1/posts", `{
		"topic": "ai agents in production",
		"target_audience": "engineering leaders",
		"tone": "professional",
		"exclude_keywords": ["revolutionary"]
	}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp v1handler.PostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ID != uuid.UUID(id).String() {
		t.Fatalf("id = %q", resp.ID)
	}
	if resp.Status != string(domain.PostStatusPending) {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.Article != nil {
		t.Fatalf("pending post must not expose an article")
	}
}

func TestCreatePost_InvalidBody(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodPost, "/v1/posts", `{"topic": `)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp v1handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != serrors.ErrValidation.Error() {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestCreatePost_ValidationError(t *testing.T) {
	h, gen := newTestHandler(t)

	gen.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		Return(nil, serrors.With(serrors.ErrValidation, "topic must be at least 5 characters"))

	rec := doRequest(h, http.MethodPost, "/v1/posts", `{"topic": "ai"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp v1handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message != "topic must be at least 5 characters" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestGetPost(t *testing.T) {
	h, gen := newTestHandler(t)

	id := domain.PostID(uuid.New())
	gen.EXPECT().Post(gomock.Any(), id).Return(completedPost(id), nil)

	rec := doRequest(h, http.MethodGet, "/v1/posts/"+uuid.UUID(id).String(), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp v1handler.PostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Article == nil {
		t.Fatalf("completed post must expose its article")
	}
	if resp.Article.Metadata.Slug != "observability-for-ml-pipelines" {
		t.Fatalf("slug = %q", resp.Article.Metadata.Slug)
	}
}

func TestGetPost_InvalidID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/v1/posts/not-a-uuid", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	h, gen := newTestHandler(t)

	id := domain.PostID(uuid.New())
	gen.EXPECT().Post(gomock.Any(), id).
		Return(nil, serrors.With(serrors.ErrNotFound, "post not found"))

	rec := doRequest(h, http.MethodGet, "/v1/posts/"+uuid.UUID(id).String(), "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp v1handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != serrors.ErrNotFound.Error() {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestGetPost_MasksInternalErrors(t *testing.T) {
	h, gen := newTestHandler(t)

	id := domain.PostID(uuid.New())
	gen.EXPECT().Post(gomock.Any(), id).
		Return(nil, serrors.Wrap(serrors.ErrInternal, assertError("pq: connection refused"), "query failed"))

	rec := doRequest(h, http.MethodGet, "/v1/posts/"+uuid.UUID(id).String(), "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp v1handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message != "internal error" {
		t.Fatalf("internal details leaked: %q", resp.Message)
	}
}

func TestListPosts(t *testing.T) {
	h, gen := newTestHandler(t)

	posts := []domain.Post{*completedPost(domain.PostID(uuid.New())), *completedPost(domain.PostID(uuid.New()))}
	gen.EXPECT().
		Posts(gomock.Any(), domain.PostStatusCompleted, "", uint(2)).
		Return(posts, "2026-01-02T15:04:05Z", nil)

	rec := doRequest(h, http.MethodGet, "/v1/posts?status=completed&limit=2", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp v1handler.PostList
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d", len(resp.Items))
	}
	if resp.NextCursor != "2026-01-02T15:04:05Z" {
		t.Fatalf("next_cursor = %q", resp.NextCursor)
	}
}

func TestListPosts_DefaultLimit(t *testing.T) {
	h, gen := newTestHandler(t)

	gen.EXPECT().
		Posts(gomock.Any(), domain.PostStatus(""), "", uint(v1handler.DefaultLimit)).
		Return(nil, "", nil)

	rec := doRequest(h, http.MethodGet, "/v1/posts", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListPosts_InvalidParams(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, target := range []string{
		"/v1/posts?status=unknown",
		"/v1/posts?limit=0",
		"/v1/posts?limit=9999",
		"/v1/posts?limit=abc",
	} {
		rec := doRequest(h, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
	}
}

func TestDeletePost(t *testing.T) {
	h, gen := newTestHandler(t)

	id := domain.PostID(uuid.New())
	gen.EXPECT().Delete(gomock.Any(), id).Return(nil)

	rec := doRequest(h, http.MethodDelete, "/v1/posts/"+uuid.UUID(id).String(), "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/v1/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

type assertError string

func (e assertError) Error() string { return string(e) }
