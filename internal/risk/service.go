package risk

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ronda/internal/identity"
	"ronda/internal/registry/models"
	"ronda/internal/risk/metrics"
	id "ronda/pkg/domain"
	dErrors "ronda/pkg/domain-errors"
	"ronda/pkg/requestcontext"
)

// GroupReader is the read-only slice of the group store the evaluator needs.
type GroupReader interface {
	FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error)
}

// Service gathers snapshots and applies the pure evaluation rules.
type Service struct {
	cfg             Config
	identity        identity.Provider
	groups          GroupReader
	snapshotTimeout time.Duration
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSnapshotTimeout bounds the parallel snapshot fetch.
func WithSnapshotTimeout(d time.Duration) Option {
	return func(s *Service) { s.snapshotTimeout = d }
}

// NewService constructs the risk service.
func NewService(cfg Config, provider identity.Provider, groups GroupReader, opts ...Option) *Service {
	s := &Service{
		cfg:             cfg.withDefaults(),
		identity:        provider,
		groups:          groups,
		snapshotTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssessJoin evaluates memberID joining groupID. A snapshot that cannot be
// loaded aborts with CodeDataUnavailable; the caller must not fall back to
// a "safe" default.
func (s *Service) AssessJoin(ctx context.Context, memberID id.MemberID, groupID id.GroupID) (*Assessment, error) {
	group, member, coordinator, err := s.gatherSnapshots(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}

	assessment := EvaluateJoin(s.cfg, JoinInput{
		Member:      member,
		Coordinator: coordinator,
		Group:       group,
		Now:         requestcontext.Now(ctx),
	})
	s.observe(ctx, "join", assessment)
	return assessment, nil
}

// AssessAcceptance evaluates a coordinator accepting candidateID into groupID.
func (s *Service) AssessAcceptance(ctx context.Context, candidateID id.MemberID, groupID id.GroupID) (*Assessment, error) {
	group, candidate, coordinator, err := s.gatherSnapshots(ctx, groupID, candidateID)
	if err != nil {
		return nil, err
	}

	assessment := EvaluateAcceptance(s.cfg, AcceptInput{
		Candidate:   candidate,
		Coordinator: coordinator,
		Group:       group,
		Now:         requestcontext.Now(ctx),
	})
	s.observe(ctx, "acceptance", assessment)
	return assessment, nil
}

// gatherSnapshots loads the group, the subject member, and the group's
// coordinator in parallel with shared cancellation. The coordinator fetch
// depends on the group, so it runs after the group load inside the same
// group scope.
func (s *Service) gatherSnapshots(ctx context.Context, groupID id.GroupID, memberID id.MemberID) (*models.Group, *identity.MemberSnapshot, *identity.MemberSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.snapshotTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var (
		group       *models.Group
		member      *identity.MemberSnapshot
		coordinator *identity.MemberSnapshot
	)

	g.Go(func() error {
		start := time.Now()
		loaded, err := s.groups.FindByID(ctx, groupID)
		if s.metrics != nil {
			s.metrics.ObserveSnapshotLatency("group", time.Since(start))
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeDataUnavailable, "group snapshot unavailable")
		}
		group = loaded

		start = time.Now()
		loadedCoordinator, err := s.identity.GetMemberStatus(ctx, group.CoordinatorID)
		if s.metrics != nil {
			s.metrics.ObserveSnapshotLatency("coordinator", time.Since(start))
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeDataUnavailable, "coordinator snapshot unavailable")
		}
		coordinator = loadedCoordinator
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		loaded, err := s.identity.GetMemberStatus(ctx, memberID)
		if s.metrics != nil {
			s.metrics.ObserveSnapshotLatency("member", time.Since(start))
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeDataUnavailable, "member snapshot unavailable")
		}
		member = loaded
		return nil
	})

	if err := g.Wait(); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "risk snapshot gathering failed",
				"group_id", groupID,
				"member_id", memberID,
				"error", err,
			)
		}
		return nil, nil, nil, err
	}
	return group, member, coordinator, nil
}

func (s *Service) observe(ctx context.Context, operation string, assessment *Assessment) {
	if s.metrics != nil {
		s.metrics.Evaluations.WithLabelValues(operation, assessment.Level.String()).Inc()
		if assessment.Blocking {
			s.metrics.BlockedActions.Inc()
		}
	}
	if s.logger != nil && assessment.Blocking {
		s.logger.WarnContext(ctx, "risk evaluation blocked action",
			"operation", operation,
			"level", assessment.Level.String(),
			"findings", len(assessment.Findings),
		)
	}
}
