// Package application orchestrates recommendation runs: it assembles the
// candidate pool and context from storage, enforces the caller's time
// budget, and fronts the pure engine with a single-flight cache.
package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nextup-dev/nextup/internal/recommend/domain"
	"github.com/nextup-dev/nextup/internal/recommend/engine"
	"github.com/nextup-dev/nextup/internal/recommend/infrastructure/cache"
	"github.com/nextup-dev/nextup/internal/tasks/domain/task"
	"github.com/nextup-dev/nextup/pkg/observability"
)

// Request carries the caller-supplied context for one recommendation run.
// Zero values default sensibly: unknown time budget, unknown energy, no
// context tags.
type Request struct {
	AvailableMinutes int
	EnergyRating     int // 1-10
	ContextTags      []string
	TopN             int
	// Now pins the evaluation time; zero means the current time.
	Now time.Time
}

// Service runs recommendations against the task store.
type Service struct {
	taskRepo         task.Repository
	eng              *engine.Engine
	store            cache.Store
	group            singleflight.Group
	timeout          time.Duration
	completionWindow time.Duration
	logger           *slog.Logger
	metrics          observability.Metrics
}

// Option configures the service.
type Option func(*Service)

// WithCache enables result caching.
func WithCache(store cache.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithTimeout sets the per-run budget. On expiry the run fails with a
// typed timeout error, never a partial result.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithCompletionWindow sets how far back completions count as momentum
// signals.
func WithCompletionWindow(d time.Duration) Option {
	return func(s *Service) { s.completionWindow = d }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(metrics observability.Metrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

// NewService creates a recommendation service.
func NewService(taskRepo task.Repository, eng *engine.Engine, opts ...Option) *Service {
	s := &Service{
		taskRepo:         taskRepo,
		eng:              eng,
		timeout:          5 * time.Second,
		completionWindow: 7 * 24 * time.Hour,
		logger:           slog.Default(),
		metrics:          observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend ranks the open tasks and explains the top recommendation.
func (s *Service) Recommend(ctx context.Context, req Request) (*domain.Result, error) {
	return s.run(ctx, "", req)
}

// Explain builds the explanation artifact for a specific task id, even
// when it is not the top-ranked candidate.
func (s *Service) Explain(ctx context.Context, subjectID string, req Request) (*domain.Result, error) {
	return s.run(ctx, subjectID, req)
}

func (s *Service) run(ctx context.Context, subjectID string, req Request) (*domain.Result, error) {
	timer := observability.StartTimer(observability.MetricRecommendDuration).WithMetrics(s.metrics)
	defer timer.Stop()

	s.metrics.Counter(observability.MetricRecommendations, 1)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, rctx, err := s.assemble(ctx, req)
	if err != nil {
		return nil, s.mapTimeout(err)
	}

	key, err := cache.Key(candidates, rctx, s.eng.Weights(), req.TopN, subjectID)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if result, ok := s.store.Get(ctx, key); ok {
			s.metrics.Counter(observability.MetricRecommendCacheHits, 1)
			return result, nil
		}
		s.metrics.Counter(observability.MetricRecommendCacheMisses, 1)
	}

	// At most one computation in flight per key; duplicate callers wait
	// for the winner's result.
	ch := s.group.DoChan(key, func() (any, error) {
		var result *domain.Result
		var err error
		if subjectID != "" {
			result, err = s.eng.Explain(subjectID, candidates, rctx)
		} else {
			result = s.eng.Recommend(candidates, rctx, req.TopN)
		}
		if err != nil {
			return nil, err
		}

		if s.store != nil {
			s.store.Set(context.WithoutCancel(ctx), key, result)
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		// Caller cancellation passes through untyped; only a spent
		// budget becomes the typed timeout.
		return nil, s.mapTimeout(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Result), nil
	}
}

// assemble loads the candidate pool and builds the evaluation context.
func (s *Service) assemble(ctx context.Context, req Request) ([]domain.Candidate, domain.Context, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	open, err := s.taskRepo.FindOpen(ctx)
	if err != nil {
		return nil, domain.Context{}, err
	}

	candidates := make([]domain.Candidate, 0, len(open))
	for _, t := range open {
		candidates = append(candidates, candidateFromTask(t))
	}

	completed, err := s.taskRepo.FindCompletedSince(ctx, now.Add(-s.completionWindow))
	if err != nil {
		return nil, domain.Context{}, err
	}

	completions := make([]domain.Completion, 0, len(completed))
	for _, t := range completed {
		completions = append(completions, completionFromTask(t))
	}

	rctx := domain.Context{
		Now:               now,
		AvailableMinutes:  req.AvailableMinutes,
		EnergyRating:      req.EnergyRating,
		ContextTags:       req.ContextTags,
		RecentCompletions: completions,
	}

	return candidates, rctx, nil
}

// mapTimeout converts context deadline errors into the typed timeout.
func (s *Service) mapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TimeoutError{Budget: s.timeout}
	}
	return err
}

// candidateFromTask snapshots a task aggregate for scoring.
func candidateFromTask(t *task.Task) domain.Candidate {
	return domain.Candidate{
		ID:            t.ID().String(),
		Title:         t.Title(),
		Project:       t.Project(),
		Tags:          t.Tags(),
		Deadline:      t.Deadline(),
		EffortMinutes: t.EffortMinutes(),
		Importance:    t.Importance(),
		Urgency:       t.Urgency(),
		Alignment:     t.Alignment(),
		Energy:        domain.EnergyLevel(int(t.Energy())),
		LastActivity:  t.UpdatedAt(),
	}
}

// completionFromTask converts a finished task into a momentum signal.
func completionFromTask(t *task.Task) domain.Completion {
	satisfaction := 0
	if t.Satisfaction() != nil {
		satisfaction = *t.Satisfaction()
	}

	completedAt := time.Time{}
	if t.CompletedAt() != nil {
		completedAt = *t.CompletedAt()
	}

	return domain.Completion{
		CandidateID:  t.ID().String(),
		Project:      t.Project(),
		Tags:         t.Tags(),
		Satisfaction: satisfaction,
		CompletedAt:  completedAt,
	}
}
