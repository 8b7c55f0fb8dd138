package engine

import (
	"log/slog"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
	"github.com/nextup-dev/nextup/pkg/observability"
)

// Engine is the single-pass recommendation pipeline: extract features,
// apply decay, score, rank, estimate confidence, explain. Stateless
// between invocations; safe for concurrent use.
type Engine struct {
	weights      domain.Weights
	cfg          Config
	extractor    *Extractor
	adjuster     *Adjuster
	scorer       *Scorer
	explainer    *Explainer
	contributors []FeatureContributor
	logger       *slog.Logger
	metrics      observability.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithContributors registers pluggable scoring theories. They run in
// order after base extraction, later ones winning on factor conflicts.
func WithContributors(contributors ...FeatureContributor) Option {
	return func(e *Engine) {
		e.contributors = append(e.contributors, contributors...)
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the engine's metrics sink.
func WithMetrics(metrics observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// New creates an engine. The weight vector and configuration are
// validated here so scoring can never fail on configuration.
func New(weights domain.Weights, cfg Config, opts ...Option) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		weights:   weights,
		cfg:       cfg,
		extractor: NewExtractor(cfg),
		adjuster:  NewAdjuster(cfg),
		scorer:    NewScorer(weights),
		explainer: NewExplainer(),
		logger:    slog.Default(),
		metrics:   observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Weights returns the engine's weight vector.
func (e *Engine) Weights() domain.Weights {
	return e.weights
}

// Recommend scores and ranks the candidate set against the context and
// explains the top-ranked candidate. topN > 0 truncates the ranked list.
// An empty or fully rejected candidate set yields an empty ranked list
// and an explanation flagged "no eligible candidates", never an error.
func (e *Engine) Recommend(candidates []domain.Candidate, rctx domain.Context, topN int) *domain.Result {
	ranked := e.pipeline(candidates, rctx)

	if len(ranked) == 0 {
		return &domain.Result{
			Ranked:      []domain.PriorityResult{},
			Explanation: e.explainer.EmptyExplanation(),
		}
	}

	subject := ranked[0]
	var runnerUp *Scored
	if len(ranked) > 1 {
		runnerUp = &ranked[1]
	}
	conf := EstimateConfidence(subject, runnerUp)

	retained := ranked
	if topN > 0 && len(retained) > topN {
		retained = retained[:topN]
	}

	return &domain.Result{
		Ranked:      ToResults(retained),
		Explanation: e.explainer.Explain(subject, ranked, rctx, conf),
	}
}

// Explain builds the explanation artifact for a specific candidate id,
// which need not be the top-ranked one; the subject is substituted and
// alternatives are computed relative to it. Returns SubjectNotFoundError
// when the id is absent from the eligible set.
func (e *Engine) Explain(subjectID string, candidates []domain.Candidate, rctx domain.Context) (*domain.Result, error) {
	ranked := e.pipeline(candidates, rctx)

	if len(ranked) == 0 {
		return nil, &domain.SubjectNotFoundError{ID: subjectID}
	}

	subjectIdx := -1
	for i, s := range ranked {
		if s.Candidate.ID == subjectID {
			subjectIdx = i
			break
		}
	}
	if subjectIdx == -1 {
		available := make([]string, len(ranked))
		for i, s := range ranked {
			available[i] = s.Candidate.ID
		}
		return nil, &domain.SubjectNotFoundError{ID: subjectID, Available: available}
	}

	subject := ranked[subjectIdx]
	var runnerUp *Scored
	for i := range ranked {
		if i != subjectIdx {
			runnerUp = &ranked[i]
			break
		}
	}
	conf := EstimateConfidence(subject, runnerUp)

	return &domain.Result{
		Ranked:      ToResults(ranked),
		Explanation: e.explainer.Explain(subject, ranked, rctx, conf),
	}, nil
}

// pipeline runs extract, decay, score, and rank for the full set.
// Invalid candidates are dropped and logged, never fatal.
func (e *Engine) pipeline(candidates []domain.Candidate, rctx domain.Context) []Scored {
	scored := make([]Scored, 0, len(candidates))

	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			e.logger.Warn("skipping invalid candidate",
				"candidate_id", c.ID,
				"error", err,
			)
			e.metrics.Counter(observability.MetricCandidatesRejected, 1)
			continue
		}

		fs := e.extractor.Extract(c, rctx)
		applyContributors(fs, e.contributors, c, rctx)

		urgency := fs[FactorUrgency]
		urgency.Raw = e.adjuster.Adjust(urgency.Raw, c, rctx)
		fs[FactorUrgency] = urgency

		score, factors := e.scorer.Score(fs)
		scored = append(scored, Scored{
			Candidate: c,
			Score:     score,
			Factors:   factors,
			Features:  fs,
		})
	}

	e.metrics.Counter(observability.MetricCandidatesScored, int64(len(scored)))

	return Rank(scored, 0)
}
