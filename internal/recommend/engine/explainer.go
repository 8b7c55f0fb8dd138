package engine

import (
	"fmt"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
)

// WarningNoCandidates is the flag carried by an empty explanation.
const WarningNoCandidates = "no eligible candidates"

// Warning thresholds.
const (
	effortFitWarnBelow = 20
	energyGapWarnAbove = 2
	maxAlternatives    = 3
)

// Explainer turns a ranked pass into the structured explanation artifact.
type Explainer struct{}

// NewExplainer creates an explanation generator.
func NewExplainer() *Explainer {
	return &Explainer{}
}

// EmptyExplanation is returned for an empty candidate set: no subject,
// no steps, one dedicated warning. Never an error.
func (e *Explainer) EmptyExplanation() domain.Explanation {
	return domain.Explanation{
		ReasoningSteps: []domain.ReasoningStep{},
		Confidence:     domain.Confidence{Value: 0, Bucket: BucketLow},
		Alternatives:   []domain.Alternative{},
		Warnings:       []string{WarningNoCandidates},
	}
}

// Explain builds the artifact for the subject. The subject is usually the
// top-ranked candidate, but explain-by-id substitutes any ranked
// candidate; alternatives and trade-offs are computed relative to the
// subject either way.
func (e *Explainer) Explain(subject Scored, ranked []Scored, ctx domain.Context, conf domain.Confidence) domain.Explanation {
	others := withoutSubject(ranked, subject.Candidate.ID)

	var runnerUp *Scored
	if len(others) > 0 {
		runnerUp = &others[0]
	}

	return domain.Explanation{
		Subject: domain.SubjectRef{
			ID:    subject.Candidate.ID,
			Title: subject.Candidate.Title,
		},
		ReasoningSteps:        e.reasoningSteps(subject, runnerUp, len(ranked), conf),
		Confidence:            conf,
		PrimaryRecommendation: e.recommendation(subject),
		Alternatives:          e.alternatives(subject, others),
		Warnings:              e.warnings(subject, ctx),
	}
}

// reasoningSteps renders the fixed five-step template.
func (e *Explainer) reasoningSteps(subject Scored, runnerUp *Scored, total int, conf domain.Confidence) []domain.ReasoningStep {
	first, second := topTwoFactors(subject.Factors)

	comparison := "no runner-up to compare against"
	if runnerUp != nil {
		comparison = fmt.Sprintf("runner-up %q scored %.1f, a gap of %.1f points",
			runnerUp.Candidate.Title, runnerUp.Score, subject.Score-runnerUp.Score)
	}

	return []domain.ReasoningStep{
		{
			Step:        1,
			Description: fmt.Sprintf("evaluated %d candidates against weighted factors", total),
			Rationale:   "every open candidate is normalized to the same seven factors before comparison",
			Confidence:  1.0,
		},
		{
			Step:        2,
			Description: fmt.Sprintf("identified top contributing factors: %s, %s", first, second),
			Rationale:   "the largest weighted contributions drive the final score",
			Confidence:  1.0,
		},
		{
			Step:        3,
			Description: "adjusted for time decay and deadline proximity",
			Rationale:   "stale items fade unless a deadline is imminent",
			Confidence:  1.0,
		},
		{
			Step:        4,
			Description: fmt.Sprintf("compared against runner-up: %s", comparison),
			Rationale:   "a wider score gap means a clearer recommendation",
			Confidence:  conf.Value,
		},
		{
			Step:        5,
			Description: fmt.Sprintf("computed confidence %.2f (%s)", conf.Value, conf.Bucket),
			Rationale:   "confidence reflects score separation and input completeness",
			Confidence:  conf.Value,
		},
	}
}

// recommendation synthesizes the action text from the subject's title and
// its single highest-contribution factor.
func (e *Explainer) recommendation(subject Scored) domain.Recommendation {
	top := topFactor(subject.Factors)
	factorName := "overall balance"
	if top != nil {
		factorName = top.Name
	}

	return domain.Recommendation{
		Action: fmt.Sprintf("work on %q next", subject.Candidate.Title),
		Rationale: fmt.Sprintf("scores %.1f/100, driven primarily by %s",
			subject.Score, factorName),
	}
}

// alternatives annotates up to three runners-up with the factor on which
// each most under-performs the subject.
func (e *Explainer) alternatives(subject Scored, others []Scored) []domain.Alternative {
	alts := make([]domain.Alternative, 0, maxAlternatives)

	for _, other := range others {
		if len(alts) == maxAlternatives {
			break
		}
		alts = append(alts, domain.Alternative{
			ID:       other.Candidate.ID,
			Title:    other.Candidate.Title,
			Tradeoff: e.tradeoff(subject, other),
		})
	}

	return alts
}

// tradeoff names the factor with the largest contribution deficit versus
// the subject.
func (e *Explainer) tradeoff(subject, other Scored) string {
	worstName := ""
	worstDeficit := 0.0

	for i, f := range other.Factors {
		deficit := subject.Factors[i].Contribution - f.Contribution
		if worstName == "" || deficit > worstDeficit {
			worstName = f.Name
			worstDeficit = deficit
		}
	}

	if worstDeficit <= 0 {
		return fmt.Sprintf("scores %.1f overall, %.1f behind", other.Score, subject.Score-other.Score)
	}
	return fmt.Sprintf("trails by %.1f points on %s", worstDeficit, worstName)
}

// warnings flags poor effort fit and large energy mismatches.
func (e *Explainer) warnings(subject Scored, ctx domain.Context) []string {
	warnings := []string{}

	if f, ok := subject.Features[FactorEffort]; ok && f.Raw < effortFitWarnBelow {
		warnings = append(warnings, "may not fit available time")
	}

	required := subject.Candidate.Energy
	if required == 0 {
		required = domain.EnergyMedium
	}
	if ctx.EnergyRating > 0 && required.Gap(ctx.CurrentEnergy()) > energyGapWarnAbove {
		warnings = append(warnings, "energy level mismatch")
	}

	return warnings
}

// withoutSubject returns ranked candidates excluding the subject,
// preserving rank order.
func withoutSubject(ranked []Scored, subjectID string) []Scored {
	others := make([]Scored, 0, len(ranked))
	for _, s := range ranked {
		if s.Candidate.ID != subjectID {
			others = append(others, s)
		}
	}
	return others
}

// topTwoFactors names the two largest contributions in canonical-order
// stable fashion.
func topTwoFactors(factors []domain.FactorScore) (string, string) {
	firstIdx, secondIdx := -1, -1
	for i := range factors {
		if firstIdx == -1 || factors[i].Contribution > factors[firstIdx].Contribution {
			secondIdx = firstIdx
			firstIdx = i
		} else if secondIdx == -1 || factors[i].Contribution > factors[secondIdx].Contribution {
			secondIdx = i
		}
	}

	first, second := "none", "none"
	if firstIdx >= 0 {
		first = factors[firstIdx].Name
	}
	if secondIdx >= 0 {
		second = factors[secondIdx].Name
	}
	return first, second
}
