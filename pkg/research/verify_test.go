package research_test

import (
	"context"
	"testing"

	"blogbrain/pkg/research"
	"blogbrain/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func scriptedResults(urls ...string) []research.Result {
	out := make([]research.Result, len(urls))
	for i, u := range urls {
		out[i] = research.Result{Title: "evidence", URL: u, Position: i + 1}
	}

	return out
}

func TestVerifyClaimVerified(t *testing.T) {
	fc := &fakeClient{
		searchFn: func(_ context.Context, _ string, _ int) ([]research.Result, error) {
			// two high-credibility sources in the evidence window
			return scriptedResults(
				"https://arxiv.org/abs/1",
				"https://openai.com/research/x",
				"https://techcrunch.com/story",
			), nil
		},
	}
	a := newAggregator(fc, research.Options{})

	v, err := a.VerifyClaim(context.Background(), "GPT-4 uses mixture of experts", 3)
	require.NoError(t, err)
	require.Equal(t, research.StatusVerified, v.Status)
	require.Equal(t, research.ConfidenceHigh, v.Confidence)
	require.Equal(t, 3, v.SourcesChecked)
	require.Len(t, v.Evidence, 3)
}

func TestVerifyClaimPartiallyVerified(t *testing.T) {
	fc := &fakeClient{
		searchFn: func(_ context.Context, _ string, _ int) ([]research.Result, error) {
			// enough sources, but only one clears the credibility bar
			return scriptedResults(
				"https://arxiv.org/abs/1",
				"https://techcrunch.com/a",
				"https://kdnuggets.com/b",
			), nil
		},
	}
	a := newAggregator(fc, research.Options{})

	v, err := a.VerifyClaim(context.Background(), "some weaker claim", 3)
	require.NoError(t, err)
	require.Equal(t, research.StatusPartiallyVerified, v.Status)
	require.Equal(t, research.ConfidenceMedium, v.Confidence)
}

func TestVerifyClaimUnverified(t *testing.T) {
	fc := &fakeClient{
		searchFn: func(_ context.Context, _ string, _ int) ([]research.Result, error) {
			return scriptedResults("https://arxiv.org/abs/1"), nil
		},
	}
	a := newAggregator(fc, research.Options{})

	v, err := a.VerifyClaim(context.Background(), "obscure claim", 3)
	require.NoError(t, err)
	require.Equal(t, research.StatusUnverified, v.Status)
	require.Equal(t, research.ConfidenceLow, v.Confidence)
	require.Equal(t, 1, v.SourcesChecked)
	require.Len(t, v.Evidence, 1)
}

func TestVerifyClaimDefaultsMinSources(t *testing.T) {
	var requested int
	fc := &fakeClient{
		searchFn: func(_ context.Context, _ string, limit int) ([]research.Result, error) {
			requested = limit

			return scriptedResults("https://arxiv.org/abs/1"), nil
		},
	}
	a := newAggregator(fc, research.Options{})

	_, err := a.VerifyClaim(context.Background(), "claim", 0)
	require.NoError(t, err)
	// DomainSearch over-fetches 2x on top of the 2x evidence pool
	require.Equal(t, research.DefaultMinSources*2*2, requested)
}

func TestVerifyClaimHonorsConfiguredCredibility(t *testing.T) {
	results := func(_ context.Context, _ string, _ int) ([]research.Result, error) {
		// openai.com carries 0.8, arxiv.org 1.0
		return scriptedResults(
			"https://arxiv.org/abs/1",
			"https://openai.com/research/x",
			"https://techcrunch.com/story",
		), nil
	}

	// default floor (0.8): both research sources count, claim verifies
	a := newAggregator(&fakeClient{searchFn: results}, research.Options{})
	v, err := a.VerifyClaim(context.Background(), "claim", 3)
	require.NoError(t, err)
	require.Equal(t, research.StatusVerified, v.Status)

	// stricter floor: only arxiv.org clears it, the verdict degrades
	a = newAggregator(&fakeClient{searchFn: results}, research.Options{MinCredibility: 0.9})
	v, err = a.VerifyClaim(context.Background(), "claim", 3)
	require.NoError(t, err)
	require.Equal(t, research.StatusPartiallyVerified, v.Status)
}

func TestVerifyClaimPropagatesSearchErrors(t *testing.T) {
	fc := &fakeClient{
		searchFn: func(_ context.Context, _ string, _ int) ([]research.Result, error) {
			return nil, serrors.KindOnly(serrors.ErrAPIKey)
		},
	}
	a := newAggregator(fc, research.Options{})

	_, err := a.VerifyClaim(context.Background(), "claim", 3)
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrAPIKey)
}
