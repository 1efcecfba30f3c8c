package research

import (
	"context"

	"blogbrain/pkg/logger"
	"blogbrain/pkg/sources"

	"go.uber.org/zap"
)

// VerificationStatus is the verdict on a checked claim.
type VerificationStatus string

const (
	// StatusVerified means at least two high-credibility sources back the claim.
	StatusVerified VerificationStatus = "Verified"
	// StatusPartiallyVerified means enough sources were found but too few of
	// them are high-credibility.
	StatusPartiallyVerified VerificationStatus = "Partially Verified"
	// StatusUnverified means not enough credible sources discuss the claim.
	StatusUnverified VerificationStatus = "Unverified"
)

// Confidence expresses how strongly the evidence supports the verdict.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Verification is the outcome of checking a claim against credible sources.
type Verification struct {
	Claim          string             `json:"claim"`
	Status         VerificationStatus `json:"verification_status"`
	Confidence     Confidence         `json:"confidence"`
	SourcesChecked int                `json:"sources_checked"`
	// Evidence holds the strongest matches, at most MinSources entries.
	Evidence []AnnotatedResult `json:"evidence"`
	// AllSources holds every match considered.
	AllSources []AnnotatedResult `json:"all_sources,omitempty"`
}

// verificationCategories are searched when checking a claim: the most
// authoritative parts of the table.
func verificationCategories() []sources.Category {
	return []sources.Category{
		sources.CategoryAcademic,
		sources.CategoryCompanyResearch,
		sources.CategoryGovernment,
	}
}

// VerifyClaim checks a claim against academic, company research and
// government sources. The claim is Verified when at least two of the first
// minSources matches carry a credibility of Options.MinCredibility or higher,
// Partially Verified when enough sources were found but too few are that
// strong, and Unverified otherwise. A non-positive minSources falls back to
// Options.MinSources.
func (a *Aggregator) VerifyClaim(ctx context.Context, claim string, minSources int) (*Verification, error) {
	if minSources <= 0 {
		minSources = a.opts.MinSources
	}

	// over-fetch so the verdict has more than the bare minimum to look at
	results, err := a.DomainSearch(ctx, claim, verificationCategories(), minSources*2)
	if err != nil {
		return nil, err
	}

	v := &Verification{
		Claim:          claim,
		Status:         StatusUnverified,
		Confidence:     ConfidenceLow,
		SourcesChecked: len(results),
		AllSources:     results,
	}

	if len(results) >= minSources {
		highCred := 0
		for _, r := range results[:minSources] {
			if r.Priority >= a.opts.MinCredibility {
				highCred++
			}
		}
		if highCred >= verifiedSourceCount {
			v.Status = StatusVerified
			v.Confidence = ConfidenceHigh
		} else {
			v.Status = StatusPartiallyVerified
			v.Confidence = ConfidenceMedium
		}
	}

	evidence := results
	if len(evidence) > minSources {
		evidence = evidence[:minSources]
	}
	v.Evidence = evidence

	logger.Debug(ctx, "claim verification done",
		zap.String("claim", claim),
		zap.String("status", string(v.Status)),
		zap.Int("sources_checked", v.SourcesChecked))

	return v, nil
}
