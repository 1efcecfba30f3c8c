package postgres

import (
	"blogbrain/pkg/domain"
	"blogbrain/pkg/storage"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	postsTable = "posts"
)

func (p *PgSQL) StorePosts(ctx context.Context, posts ...domain.Post) ([]domain.Post, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	pgPosts, err := domainPostsToPg(posts)
	if err != nil {
		return nil, err
	}

	var result []PgPost
	if err := p.Builder.Insert(postsTable).
		Rows(pgPosts).
		Returning(&PgPost{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store posts into pg: %w", err)
	}

	return pgPostsToDomain(result)
}

// updateRecord builds the goqu record shared by the post update paths. Attempts
// is incremented by 1 and updated_at is always refreshed.
func updateRecord(updates storage.PostUpdates) (goqu.Record, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"attempts":   goqu.L("attempts + 1"),
		"status":     updates.Status,
	}
	if updates.Status == domain.PostStatusFailed && updates.MaxAttempts > 0 {
		// keep the post pending until the attempt budget is exhausted
		rec["status"] = goqu.L("CASE WHEN attempts + 1 >= ? THEN ? ELSE status END",
			updates.MaxAttempts, string(domain.PostStatusFailed))
	}
	if updates.Article != nil {
		b, err := json.Marshal(updates.Article)
		if err != nil {
			return nil, fmt.Errorf("could not marshal article: %w", err)
		}

		rec["article"] = b
	}
	if updates.LastError != nil {
		if *updates.LastError == "" {
			// set to NULL when empty string provided
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	return rec, nil
}

// UpdatePendingPostsByKey updates all pending posts for the given request key with provided fields.
// Only non-nil fields from updates are set. Attempts is incremented by 1 and updated_at is set.
func (p *PgSQL) UpdatePendingPostsByKey(ctx context.Context, key string, updates storage.PostUpdates) error {
	rec, err := updateRecord(updates)
	if err != nil {
		return err
	}

	_, err = p.Builder.Update(postsTable).
		Set(rec).Where(
		goqu.I("request_key").Eq(key),
		goqu.I("status").Eq(string(domain.PostStatusPending)),
		goqu.I("deleted_at").IsNull(),
	).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not update pending posts by key in pg: %w", err)
	}

	return nil
}

// PendingPostCountByKey counts pending, non-deleted posts for the given request key.
func (p *PgSQL) PendingPostCountByKey(ctx context.Context, key string) (int64, error) {
	count, err := p.Builder.From(postsTable).
		Where(
			goqu.I("request_key").Eq(key),
			goqu.I("status").Eq(string(domain.PostStatusPending)),
			goqu.I("deleted_at").IsNull(),
		).CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not count pending posts by key in pg: %w", err)
	}

	return count, nil
}

// UpdatePostByID updates a single post by its ID, ignoring soft-deleted rows,
// and returns the updated record.
func (p *PgSQL) UpdatePostByID(ctx context.Context, id domain.PostID, updates storage.PostUpdates) (*domain.Post, error) {
	rec, err := updateRecord(updates)
	if err != nil {
		return nil, err
	}

	var row PgPost
	found, err := p.Builder.Update(postsTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgPost{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update post by id in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// DeletePost performs a soft delete by setting deleted_at timestamp
// for a given post id, returning the deleted record.
func (p *PgSQL) DeletePost(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	var row PgPost
	found, err := p.Builder.Update(postsTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgPost{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete post in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// Posts returns a list of posts filtered by optional status and cursor, limited by limit.
// Results are ordered by created_at DESC, id DESC. Returns a next cursor for pagination.
func (p *PgSQL) Posts(ctx context.Context,
	status domain.PostStatus,
	cursor time.Time,
	limit uint) (storage.PostsPage, error) {
	w := []goqu.Expression{
		goqu.I("deleted_at").IsNull(),
	}
	if status != "" {
		w = append(w, goqu.I("status").Eq(string(status)))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	fetch := limit + 1
	ds := p.Builder.From(postsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch)

	var rows []PgPost
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.PostsPage{}, fmt.Errorf("could not fetch posts from pg: %w", err)
	}

	// if we fetched more than the limit, there is a next page
	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		trimmed := rows[:limit]
		nextCursor = &trimmed[len(trimmed)-1].CreatedAt
		rows = trimmed
	}

	domainRows, err := pgPostsToDomain(rows)
	if err != nil {
		return storage.PostsPage{}, err
	}

	return storage.PostsPage{
		Posts:      domainRows,
		NextCursor: nextCursor,
	}, nil
}

// PostByID returns a post by its ID, excluding soft-deleted rows.
func (p *PgSQL) PostByID(ctx context.Context, id domain.PostID) (*domain.Post, error) {
	var row PgPost
	found, err := p.Builder.From(postsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch post by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// LastCompletedPostByKey returns the most recent completed post for a request
// key, optionally restricted to posts created at or after since.
func (p *PgSQL) LastCompletedPostByKey(ctx context.Context, key string, since time.Time) (*domain.Post, error) {
	w := []goqu.Expression{
		goqu.I("request_key").Eq(key),
		goqu.I("status").Eq(string(domain.PostStatusCompleted)),
		goqu.I("deleted_at").IsNull(),
	}
	if !since.IsZero() {
		w = append(w, goqu.I("created_at").Gte(since))
	}

	var row PgPost
	found, err := p.Builder.From(postsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(1).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch last completed post by key: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
