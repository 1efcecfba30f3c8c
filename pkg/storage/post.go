package storage

import (
	"blogbrain/pkg/domain"
	"context"
	"time"
)

// PostUpdates describes a set of optional fields that can be applied to an
// existing post during an update. Only non-nil fields will be updated.
type PostUpdates struct {
	// Status is the new status to set for the post.
	Status domain.PostStatus
	// Article, when provided, replaces the stored article payload.
	Article *domain.Article
	// LastError, when provided, sets the last error text. An empty string value
	// indicates the error should be cleared (set to NULL).
	LastError *string
	// MaxAttempts, when provided alongside a Failed status, ensures that status
	// is only updated to Failed if the current attempts after increment would
	// exceed this threshold. A value <= 0 disables this guard.
	MaxAttempts int
}

// PostsPage groups a page of posts together with an optional NextCursor used
// for pagination.
type PostsPage struct {
	// Posts contains the current page of post records.
	Posts []domain.Post
	// NextCursor points to the timestamp to be used as the cursor for fetching
	// the next page. It is nil when there is no next page.
	NextCursor *time.Time
}

// PostStorage defines CRUD and query operations related to posts. Implementations
// should ensure idempotency and proper handling of soft-deletes where applicable.
type PostStorage interface {
	// StorePosts inserts one or more posts and returns the stored rows as they
	// exist in the database (including generated fields).
	StorePosts(ctx context.Context, posts ...domain.Post) ([]domain.Post, error)
	// UpdatePendingPostsByKey updates all pending posts for the given request key
	// using the provided field set.
	// Notes:
	// - Attempts is incremented by 1 and updated_at is set automatically.
	// - If Status is Failed and MaxAttempts > 0, status is only set to Failed
	//   when the attempts after increment would exceed MaxAttempts; otherwise
	//   status remains unchanged (i.e., stays Pending).
	UpdatePendingPostsByKey(ctx context.Context, key string, updates PostUpdates) error
	// PendingPostCountByKey returns the total number of pending posts for the
	// given request key. Soft-deleted records are excluded from the count.
	PendingPostCountByKey(ctx context.Context, key string) (int64, error)
	// UpdatePostByID updates a single post identified by its ID and returns the updated row.
	// The update ignores soft-deleted rows and sets updated_at automatically. Only provided fields are changed.
	UpdatePostByID(ctx context.Context, ID domain.PostID, updates PostUpdates) (*domain.Post, error)
	// DeletePost performs a soft delete for the given post ID and returns the
	// deleted post, or nil if it was not found.
	DeletePost(ctx context.Context, ID domain.PostID) (*domain.Post, error)
	// Posts returns a page of posts created before the optional cursor time,
	// limited by the given limit. If status is non-empty, results are filtered
	// to records with the given status.
	Posts(ctx context.Context,
		status domain.PostStatus,
		cursor time.Time,
		limit uint) (PostsPage, error)
	// PostByID fetches a post by its ID, excluding soft-deleted records.
	// Returns nil when not found.
	PostByID(ctx context.Context, ID domain.PostID) (*domain.Post, error)
	// LastCompletedPostByKey returns the most recent completed post for a given
	// request key, created at or after since. Passing a zero since disables the
	// freshness filter. Returns nil when no matching post exists.
	LastCompletedPostByKey(ctx context.Context, key string, since time.Time) (*domain.Post, error)
}
