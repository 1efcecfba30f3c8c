package postgres

import (
	"blogbrain/pkg/domain"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PgPost struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Topic           string          `db:"topic"`
	TargetAudience  string          `db:"target_audience"`
	Tone            string          `db:"tone"`
	ExcludeKeywords json.RawMessage `db:"exclude_keywords"`
	RequestKey      string          `db:"request_key"`

	Status  string          `db:"status"`
	Article json.RawMessage `db:"article" goqu:"skipinsert"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

// TODO: use https://github.com/jmattheis/goverter for converting

func (p *PgPost) ToDomain() (*domain.Post, error) {
	var article domain.Article
	if err := json.Unmarshal(p.Article, &article); err != nil {
		return nil, fmt.Errorf("could not unmarshal article: %w", err)
	}

	var keywords []string
	if len(p.ExcludeKeywords) > 0 {
		if err := json.Unmarshal(p.ExcludeKeywords, &keywords); err != nil {
			return nil, fmt.Errorf("could not unmarshal exclude keywords: %w", err)
		}
	}

	return &domain.Post{
		ID:              domain.PostID(p.ID),
		Topic:           p.Topic,
		TargetAudience:  p.TargetAudience,
		Tone:            domain.Tone(p.Tone),
		ExcludeKeywords: keywords,
		Key:             p.RequestKey,
		Status:          domain.PostStatus(p.Status),
		Article:         article,
		Attempts:        p.Attempts,
		LastError:       p.LastError.String,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt.Time,
		DeletedAt:       p.DeletedAt.Time,
	}, nil
}

func (p *PgPost) FromDomain(post domain.Post) error {
	article, err := json.Marshal(post.Article)
	if err != nil {
		return fmt.Errorf("could not marshal article: %w", err)
	}

	keywords := post.ExcludeKeywords
	if keywords == nil {
		keywords = []string{}
	}
	rawKeywords, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("could not marshal exclude keywords: %w", err)
	}

	*p = PgPost{
		ID:              uuid.UUID(post.ID),
		Topic:           post.Topic,
		TargetAudience:  post.TargetAudience,
		Tone:            string(post.Tone),
		ExcludeKeywords: rawKeywords,
		RequestKey:      post.Key,
		Status:          string(post.Status),
		Article:         article,
		Attempts:        post.Attempts,
		LastError: sql.NullString{
			String: post.LastError,
			Valid:  post.LastError != "",
		},
		CreatedAt: post.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  post.UpdatedAt,
			Valid: !post.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  post.DeletedAt,
			Valid: !post.DeletedAt.IsZero(),
		},
	}

	return nil
}

func domainPostsToPg(posts []domain.Post) ([]PgPost, error) {
	out := make([]PgPost, len(posts))
	for i := range out {
		if err := out[i].FromDomain(posts[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func pgPostsToDomain(posts []PgPost) ([]domain.Post, error) {
	out := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		d, err := post.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
