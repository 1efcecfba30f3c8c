package generator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogbrain/internal/generator"
	mockgenerator "blogbrain/internal/generator/mock"
	mockstorage "blogbrain/pkg/storage/mock"

	"go.uber.org/mock/gomock"

	"blogbrain/pkg/domain"
	"blogbrain/pkg/serrors"
	"blogbrain/pkg/storage"
)

func testRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Topic:          "how ai is transforming customer service",
		TargetAudience: "business owners",
		Tone:           domain.ToneProfessional,
	}
}

func newTestGenerator(t *testing.T) (*gomock.Controller, *mockstorage.MockStorage, *mockgenerator.MockPipeline, generator.Generator) {
	t.Helper()

	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	pipeline := mockgenerator.NewMockPipeline(ctrl)
	g := generator.New(st, pipeline, generator.Options{
		MaxAttempts:    3,
		Timeout:        time.Minute,
		ResultCacheTTL: time.Hour,
	})

	return ctrl, st, pipeline, g
}

// helper to wire Storage.WithTx to execute callback with a MockAllStorage.
func expectWithTx(
	t *testing.T,
	ctrl *gomock.Controller,
	m *mockstorage.MockStorage,
	fn func(tx *mockstorage.MockAllStorage)) {
	t.Helper()

	m.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cb func(storage.AllStorage) error) error {
			// provide a tx mock that implements AllStorage
			tx := mockstorage.NewMockAllStorage(ctrl)
			if fn != nil {
				fn(tx)
			}

			return cb(tx)
		},
	)
}

func TestGenerator_Enqueue_JobAdded(t *testing.T) {
	ctrl, st, _, g := newTestGenerator(t)
	req := testRequest()

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StorePosts(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, posts ...domain.Post) ([]domain.Post, error) {
				if len(posts) != 1 {
					t.Fatalf("expected one post input")
				}
				if posts[0].Key != req.Key() {
					t.Fatalf("expected key %q got %q", req.Key(), posts[0].Key)
				}

				return posts, nil
			},
		)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(true, nil)
	})

	post, err := g.Enqueue(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post == nil {
		t.Fatalf("expected post, got nil")
	}
	if post.Status != domain.PostStatusPending {
		t.Fatalf("expected status PENDING, got %s", post.Status)
	}
	if post.Topic != req.Topic {
		t.Fatalf("expected topic %q got %q", req.Topic, post.Topic)
	}
}

func TestGenerator_Enqueue_UsesLastCompletedResult(t *testing.T) {
	ctrl, st, _, g := newTestGenerator(t)
	req := testRequest()

	completed := domain.Post{
		Status: domain.PostStatusCompleted,
		Article: domain.Article{
			Metadata: domain.ArticleMetadata{SEOTitle: "Cached Title"},
		},
	}

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StorePosts(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, posts ...domain.Post) ([]domain.Post, error) {
				return posts, nil
			},
		)
		// Job not added (already exists)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		// There is a fresh completed post for the key
		tx.EXPECT().LastCompletedPostByKey(gomock.Any(), req.Key(), gomock.Any()).Return(&completed, nil)
		// Update the newly created post to completed with that article
		tx.EXPECT().UpdatePostByID(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.PostID, updates storage.PostUpdates) (*domain.Post, error) {
				if updates.Status != domain.PostStatusCompleted || updates.Article == nil {
					t.Fatalf("expected completed update with article")
				}
				res := domain.Post{Status: domain.PostStatusCompleted, Article: *updates.Article}

				return &res, nil
			},
		)
	})

	post, err := g.Enqueue(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Status != domain.PostStatusCompleted {
		t.Fatalf("expected status COMPLETED, got %s", post.Status)
	}
	if post.Article.Metadata.SEOTitle != "Cached Title" {
		t.Fatalf("expected cached article, got %+v", post.Article)
	}
}

func TestGenerator_Enqueue_PendingWhenJobExistsWithoutResult(t *testing.T) {
	ctrl, st, _, g := newTestGenerator(t)
	req := testRequest()

	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StorePosts(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, posts ...domain.Post) ([]domain.Post, error) {
				return posts, nil
			},
		)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCompletedPostByKey(gomock.Any(), req.Key(), gomock.Any()).Return(nil, nil)
	})

	post, err := g.Enqueue(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Status != domain.PostStatusPending {
		t.Fatalf("expected status PENDING, got %s", post.Status)
	}
}

func TestGenerator_Enqueue_InvalidRequest(t *testing.T) {
	_, st, _, g := newTestGenerator(t)

	_, err := g.Enqueue(context.Background(), domain.GenerationRequest{Topic: "ai"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, serrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	// ensure no calls were made on storage
	st.EXPECT().WithTx(gomock.Any(), gomock.Any()).Times(0)
}

func TestGenerator_Enqueue_PropagatesErrors(t *testing.T) {
	ctrl, st, _, g := newTestGenerator(t)
	req := testRequest()

	// error from StorePosts
	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StorePosts(gomock.Any(), gomock.Any()).Return(nil, errors.New("store err"))
	})
	if _, err := g.Enqueue(context.Background(), req); err == nil {
		t.Fatalf("expected error from StorePosts")
	}

	// error from AddJob
	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StorePosts(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, posts ...domain.Post) ([]domain.Post, error) { return posts, nil },
		)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, errors.New("add err"))
	})
	if _, err := g.Enqueue(context.Background(), req); err == nil {
		t.Fatalf("expected error from AddJob")
	}

	// error from LastCompletedPostByKey
	expectWithTx(t, ctrl, st, func(tx *mockstorage.MockAllStorage) {
		tx.EXPECT().StorePosts(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, posts ...domain.Post) ([]domain.Post, error) { return posts, nil },
		)
		tx.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, nil)
		tx.EXPECT().LastCompletedPostByKey(gomock.Any(), req.Key(), gomock.Any()).Return(nil, errors.New("last err"))
	})
	if _, err := g.Enqueue(context.Background(), req); err == nil {
		t.Fatalf("expected error from LastCompletedPostByKey")
	}
}

func TestGenerator_Posts_SuccessAndPagination(t *testing.T) {
	_, st, _, g := newTestGenerator(t)
	status := domain.PostStatusPending
	cursorTime := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	cursor := cursorTime.Format(time.RFC3339)

	page := storage.PostsPage{
		Posts: []domain.Post{{Topic: "ai agents"}},
		NextCursor: func() *time.Time {
			t := cursorTime.Add(-time.Minute)

			return &t
		}(),
	}

	st.EXPECT().Posts(gomock.Any(), status, cursorTime, uint(10)).Return(page, nil)

	posts, next, err := g.Posts(context.Background(), status, cursor, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 || posts[0].Topic != "ai agents" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
	if next == "" {
		t.Fatalf("expected next cursor, got empty")
	}
}

func TestGenerator_Posts_InvalidCursor(t *testing.T) {
	_, _, _, g := newTestGenerator(t)
	_, _, err := g.Posts(context.Background(), "", "not-a-time", 5)
	if err == nil || !errors.Is(err, serrors.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGenerator_Post(t *testing.T) {
	_, st, _, g := newTestGenerator(t)
	id := domain.PostID{}

	// found
	st.EXPECT().PostByID(gomock.Any(), id).Return(&domain.Post{Topic: "found"}, nil)
	post, err := g.Post(context.Background(), id)
	if err != nil || post == nil || post.Topic != "found" {
		t.Fatalf("unexpected: post=%+v err=%v", post, err)
	}

	// not found
	st.EXPECT().PostByID(gomock.Any(), id).Return(nil, nil)
	_, err = g.Post(context.Background(), id)
	if err == nil || !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// storage error
	st.EXPECT().PostByID(gomock.Any(), id).Return(nil, errors.New("boom"))
	if _, err := g.Post(context.Background(), id); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestGenerator_Delete(t *testing.T) {
	_, st, _, g := newTestGenerator(t)
	id := domain.PostID{}

	// success
	st.EXPECT().DeletePost(gomock.Any(), id).Return(&domain.Post{}, nil)
	if err := g.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// not found
	st.EXPECT().DeletePost(gomock.Any(), id).Return(nil, nil)
	err := g.Delete(context.Background(), id)
	if err == nil || !errors.Is(err, serrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// storage error
	st.EXPECT().DeletePost(gomock.Any(), id).Return(nil, errors.New("boom"))
	if err := g.Delete(context.Background(), id); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestGenerator_Generate_Success(t *testing.T) {
	_, st, pipeline, g := newTestGenerator(t)
	req := testRequest()
	article := &domain.Article{
		Metadata: domain.ArticleMetadata{SEOTitle: "Fresh Article"},
	}

	st.EXPECT().PendingPostCountByKey(gomock.Any(), req.Key()).Return(int64(2), nil)
	pipeline.EXPECT().Generate(gomock.Any(), req).Return(article, nil)
	st.EXPECT().UpdatePendingPostsByKey(gomock.Any(), req.Key(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.PostUpdates) error {
			if updates.Status != domain.PostStatusCompleted {
				t.Fatalf("expected completed status, got %s", updates.Status)
			}
			if updates.Article == nil || updates.Article.Metadata.SEOTitle != "Fresh Article" {
				t.Fatalf("expected generated article, got %+v", updates.Article)
			}
			if updates.LastError == nil || *updates.LastError != "" {
				t.Fatalf("expected last error cleared")
			}

			return nil
		},
	)

	if err := g.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerator_Generate_ConflictWhenNoPendingPosts(t *testing.T) {
	_, st, _, g := newTestGenerator(t)
	req := testRequest()

	st.EXPECT().PendingPostCountByKey(gomock.Any(), req.Key()).Return(int64(0), nil)

	err := g.Generate(context.Background(), req)
	if err == nil || !errors.Is(err, serrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGenerator_Generate_FailureMarksPostsFailed(t *testing.T) {
	_, st, pipeline, g := newTestGenerator(t)
	req := testRequest()

	st.EXPECT().PendingPostCountByKey(gomock.Any(), req.Key()).Return(int64(1), nil)
	pipeline.EXPECT().Generate(gomock.Any(), req).
		Return(nil, serrors.With(serrors.ErrGeneration, "editor rejected the draft"))
	st.EXPECT().UpdatePendingPostsByKey(gomock.Any(), req.Key(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, updates storage.PostUpdates) error {
			if updates.Status != domain.PostStatusFailed {
				t.Fatalf("expected failed status, got %s", updates.Status)
			}
			if updates.MaxAttempts != 3 {
				t.Fatalf("expected max attempts guard, got %d", updates.MaxAttempts)
			}
			if updates.LastError == nil || *updates.LastError == "" {
				t.Fatalf("expected last error recorded")
			}

			return nil
		},
	)

	err := g.Generate(context.Background(), req)
	if err == nil || !errors.Is(err, serrors.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestGenerator_Generate_RateLimitedKeepsPostsPending(t *testing.T) {
	_, st, pipeline, g := newTestGenerator(t)
	req := testRequest()

	st.EXPECT().PendingPostCountByKey(gomock.Any(), req.Key()).Return(int64(1), nil)
	pipeline.EXPECT().Generate(gomock.Any(), req).
		Return(nil, serrors.With(serrors.ErrRateLimited, "provider quota exhausted"))
	// no UpdatePendingPostsByKey call: posts stay pending for the retry

	err := g.Generate(context.Background(), req)
	if err == nil || !errors.Is(err, serrors.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestGenerator_Generate_RecordsFailureAfterDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mockstorage.NewMockStorage(ctrl)
	pipeline := mockgenerator.NewMockPipeline(ctrl)
	g := generator.New(st, pipeline, generator.Options{
		MaxAttempts:    3,
		Timeout:        20 * time.Millisecond,
		ResultCacheTTL: time.Hour,
	})
	req := testRequest()

	st.EXPECT().PendingPostCountByKey(gomock.Any(), req.Key()).Return(int64(1), nil)
	pipeline.EXPECT().Generate(gomock.Any(), req).DoAndReturn(
		func(ctx context.Context, _ domain.GenerationRequest) (*domain.Article, error) {
			// run into the generation deadline
			<-ctx.Done()

			return nil, ctx.Err()
		},
	)
	st.EXPECT().UpdatePendingPostsByKey(gomock.Any(), req.Key(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, updates storage.PostUpdates) error {
			if ctx.Err() != nil {
				t.Fatalf("failure update must not run on an expired context: %v", ctx.Err())
			}
			if updates.Status != domain.PostStatusFailed {
				t.Fatalf("expected failed status, got %s", updates.Status)
			}
			if updates.LastError == nil || *updates.LastError == "" {
				t.Fatalf("expected last error recorded")
			}

			return nil
		},
	)

	err := g.Generate(context.Background(), req)
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
