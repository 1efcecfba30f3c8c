package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Tone selects the writing voice of a generated article.
type Tone string

const (
	ToneProfessional   Tone = "professional"
	ToneCasual         Tone = "casual"
	ToneTechnical      Tone = "technical"
	ToneConversational Tone = "conversational"
	ToneFormal         Tone = "formal"
	ToneFriendly       Tone = "friendly"
)

// Tones lists all accepted writing tones.
func Tones() []Tone {
	return []Tone{
		ToneProfessional,
		ToneCasual,
		ToneTechnical,
		ToneConversational,
		ToneFormal,
		ToneFriendly,
	}
}

// ParseTone validates a tone string. The empty string defaults to
// ToneProfessional.
func ParseTone(s string) (Tone, error) {
	if s == "" {
		return ToneProfessional, nil
	}
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tones() {
		if t == known {
			return t, nil
		}
	}

	return "", fmt.Errorf("unknown tone %q", s)
}

const (
	// MinTopicLength and MaxTopicLength bound the topic after whitespace
	// normalization.
	MinTopicLength = 5
	MaxTopicLength = 200
	// MaxExcludeKeywords bounds the exclude list after deduplication.
	MaxExcludeKeywords = 20
	// DefaultTargetAudience is used when the caller does not name one.
	DefaultTargetAudience = "business professionals"
)

// GenerationRequest is a validated request to generate a blog post.
type GenerationRequest struct {
	Topic           string   `json:"topic"`
	TargetAudience  string   `json:"target_audience"`
	Tone            Tone     `json:"tone"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`
}

// Normalize trims and collapses whitespace in the topic and audience,
// defaults missing fields, and deduplicates exclude keywords
// (case-insensitively, keeping first appearance order).
func (r GenerationRequest) Normalize() GenerationRequest {
	r.Topic = strings.Join(strings.Fields(r.Topic), " ")
	r.TargetAudience = strings.Join(strings.Fields(r.TargetAudience), " ")
	if r.TargetAudience == "" {
		r.TargetAudience = DefaultTargetAudience
	}
	if r.Tone == "" {
		r.Tone = ToneProfessional
	}

	seen := make(map[string]bool, len(r.ExcludeKeywords))
	var kept []string
	for _, kw := range r.ExcludeKeywords {
		kw = strings.Join(strings.Fields(kw), " ")
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		kept = append(kept, kw)
	}
	r.ExcludeKeywords = kept

	return r
}

// Validate checks a normalized request against the request limits.
func (r GenerationRequest) Validate() error {
	if len(r.Topic) < MinTopicLength {
		return fmt.Errorf("topic must be at least %d characters", MinTopicLength)
	}
	if len(r.Topic) > MaxTopicLength {
		return fmt.Errorf("topic must be at most %d characters", MaxTopicLength)
	}
	if _, err := ParseTone(string(r.Tone)); err != nil {
		return err
	}
	if len(r.ExcludeKeywords) > MaxExcludeKeywords {
		return errors.New("too many exclude keywords")
	}

	return nil
}

// Key returns a canonical identity for the request, used to coalesce
// duplicate generation jobs and to reuse recent results. Keyword order does
// not change the key.
func (r GenerationRequest) Key() string {
	kws := make([]string, len(r.ExcludeKeywords))
	for i, kw := range r.ExcludeKeywords {
		kws[i] = strings.ToLower(kw)
	}
	sort.Strings(kws)

	parts := []string{
		strings.ToLower(r.Topic),
		strings.ToLower(r.TargetAudience),
		string(r.Tone),
		strings.Join(kws, ","),
	}

	return strings.Join(parts, "|")
}
