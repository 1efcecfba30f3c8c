package v1handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogbrain/pkg/domain"
	"blogbrain/pkg/serrors"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// CreatePostRequest is the JSON payload accepted by POST /v1/posts.
type CreatePostRequest struct {
	Topic           string   `json:"topic"`
	TargetAudience  string   `json:"target_audience,omitempty"`
	Tone            string   `json:"tone,omitempty"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`
}

// PostResponse is the wire representation of a post.
type PostResponse struct {
	ID              string          `json:"id"`
	Topic           string          `json:"topic"`
	TargetAudience  string          `json:"target_audience"`
	Tone            string          `json:"tone"`
	ExcludeKeywords []string        `json:"exclude_keywords,omitempty"`
	Status          string          `json:"status"`
	Article         *domain.Article `json:"article,omitempty"`
	Attempts        uint            `json:"attempts"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

// PostList is the paginated response of GET /v1/posts.
type PostList struct {
	Items      []PostResponse `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func DomainPostToV1(in *domain.Post) PostResponse {
	out := PostResponse{
		ID:              uuid.UUID(in.ID).String(),
		Topic:           in.Topic,
		TargetAudience:  in.TargetAudience,
		Tone:            string(in.Tone),
		ExcludeKeywords: in.ExcludeKeywords,
		Status:          string(in.Status),
		Attempts:        in.Attempts,
		CreatedAt:       in.CreatedAt,
	}
	if in.Status == domain.PostStatusCompleted {
		article := in.Article
		out.Article = &article
	}
	if !in.UpdatedAt.IsZero() {
		updatedAt := in.UpdatedAt
		out.UpdatedAt = &updatedAt
	}

	return out
}

// CreatePost schedules generation of a new blog post.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrValidation, err, "invalid request body"))

		return
	}

	post, err := h.deps.Generator.Enqueue(r.Context(), domain.GenerationRequest{
		Topic:           req.Topic,
		TargetAudience:  req.TargetAudience,
		Tone:            domain.Tone(req.Tone),
		ExcludeKeywords: req.ExcludeKeywords,
	})
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusAccepted, DomainPostToV1(post))
}

// GetPost returns a single post by ID.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := parsePostID(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	post, err := h.deps.Generator.Post(r.Context(), postID)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, DomainPostToV1(post))
}

// ListPosts returns a paginated list of posts, optionally filtered by status.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	limit := uint(DefaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 || parsed > MaxLimit {
			h.writeError(w, r, serrors.With(serrors.ErrValidation,
				"limit must be an integer between 1 and %d", MaxLimit))

			return
		}
		limit = uint(parsed)
	}

	posts, nextCursor, err := h.deps.Generator.Posts(r.Context(),
		status, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	items := make([]PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, DomainPostToV1(&posts[i]))
	}

	writeJSON(w, http.StatusOK, PostList{
		Items:      items,
		NextCursor: nextCursor,
	})
}

// DeletePost removes a post by ID.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := parsePostID(r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	if err := h.deps.Generator.Delete(r.Context(), postID); err != nil {
		h.writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parsePostID(r *http.Request) (domain.PostID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return domain.PostID{}, serrors.With(serrors.ErrValidation, "invalid post ID")
	}

	return domain.PostID(id), nil
}

func parseStatus(raw string) (domain.PostStatus, error) {
	if raw == "" {
		return "", nil
	}
	status := domain.PostStatus(strings.ToUpper(raw))
	switch status {
	case domain.PostStatusPending, domain.PostStatusCompleted, domain.PostStatusFailed:
		return status, nil
	default:
		return "", serrors.With(serrors.ErrValidation, "unknown status %q", raw)
	}
}
