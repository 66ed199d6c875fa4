package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"ronda/internal/audit"
	auditmemory "ronda/internal/audit/store/memory"
	auditpostgres "ronda/internal/audit/store/postgres"
	"ronda/internal/identity"
	"ronda/internal/lifecycle"
	"ronda/internal/match"
	"ronda/internal/notify"
	"ronda/internal/outbox"
	"ronda/internal/payments"
	"ronda/internal/platform/config"
	"ronda/internal/platform/httpserver"
	"ronda/internal/platform/logger"
	"ronda/internal/platform/metrics"
	platformpostgres "ronda/internal/platform/postgres"
	platformredis "ronda/internal/platform/redis"
	"ronda/internal/ratelimit"
	registryports "ronda/internal/registry/ports"
	registrysvc "ronda/internal/registry/service"
	cyclestore "ronda/internal/registry/store/cycle"
	groupstore "ronda/internal/registry/store/group"
	membershipstore "ronda/internal/registry/store/membership"
	"ronda/internal/risk"
	riskmetrics "ronda/internal/risk/metrics"
	"ronda/internal/rotation"
	httptransport "ronda/internal/transport/http"
	id "ronda/pkg/domain"
)

const (
	auditInboxSize      = 256
	notifyQueueSize     = 256
	reconcilerQueueSize = 128
)

// main wires the process: stores, risk evaluator, lifecycle coordinator,
// background workers, and the HTTP server. Business logic lives in the
// internal services.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = platformpostgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	m := metrics.New()

	groups, memberships, cycles := buildRegistryStores(pool)
	outboxStore := buildOutboxStore(pool)
	auditStore := buildAuditStore(pool, outboxStore)

	inbox := make(chan audit.Event, auditInboxSize)
	auditor := audit.NewPublisher(auditStore, inbox, audit.WithLogger(log))
	auditWorker := audit.NewWorker(auditStore, inbox, log)

	scheduler := rotation.New(rotation.PolicySeededRandom)
	registry := registrysvc.New(groups, memberships, cycles, scheduler, registrysvc.WithLogger(log))

	provider, sanctioner, err := buildIdentity(cfg, log)
	if err != nil {
		return err
	}

	evaluator := risk.NewService(riskConfig(cfg.Risk), provider, groups,
		risk.WithLogger(log),
		risk.WithMetrics(riskmetrics.New()),
		risk.WithSnapshotTimeout(cfg.Risk.SnapshotTimeout),
	)

	matcher, err := match.New(match.DefaultWeights())
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(notify.NewLogSink(log), notifyQueueSize, notify.WithLogger(log))

	gateway := payments.NewStaticGateway()

	// The reconciler's failure handler needs the coordinator, and the
	// coordinator needs the reconciler. The closure breaks the loop: it is
	// only invoked once both exist.
	var coordinator *lifecycle.Coordinator
	onFailure := func(ctx context.Context, req payments.ChargeRequest, err error) {
		coordinator.HandleChargeFailure(groupForCycle(cycles))(ctx, req, err)
	}
	confirmer := paymentConfirmer{
		coordinator: func() *lifecycle.Coordinator { return coordinator },
		groupFor:    groupForCycle(cycles),
	}
	reconciler := payments.NewReconciler(gateway, confirmer, onFailure, reconcilerQueueSize, payments.WithLogger(log))

	coordinator, err = lifecycle.New(evaluator, registry, matcher, auditor, dispatcher,
		lifecycle.WithLogger(log),
		lifecycle.WithMetrics(m),
		lifecycle.WithSanctioner(sanctioner),
		lifecycle.WithPayments(gateway, reconciler),
	)
	if err != nil {
		return err
	}

	var routerOpts []httptransport.RouterOption
	if cfg.Rate.Limit > 0 {
		limiter := ratelimit.New(cfg.Rate.Limit, cfg.Rate.Window)
		routerOpts = append(routerOpts, httptransport.WithMiddleware(limiter.Middleware))
	}
	router := httptransport.NewRouter(coordinator, log, routerOpts...)
	srv := httpserver.New(cfg.Server.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return auditWorker.Run(ctx) })
	g.Go(func() error { return dispatcher.Run(ctx) })
	g.Go(func() error { return reconciler.Run(ctx) })

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kgo.NewClient(kgo.SeedBrokers(cfg.Kafka.Brokers...))
		if err != nil {
			return err
		}
		defer producer.Close()

		relay := outbox.NewRelay(outboxStore, producer, cfg.Kafka.Topic, cfg.Kafka.Poll,
			outbox.WithLogger(log),
			outbox.WithPendingGauge(m.OutboxPending),
		)
		g.Go(func() error { return relay.Run(ctx) })
	}

	g.Go(func() error {
		log.Info("starting ronda", "addr", cfg.Server.Addr, "postgres", pool != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildRegistryStores(pool *pgxpool.Pool) (registryports.GroupStore, registryports.MembershipStore, registryports.CycleStore) {
	if pool == nil {
		return groupstore.NewInMemory(), membershipstore.NewInMemory(), cyclestore.NewInMemory()
	}
	return groupstore.NewPostgres(pool), membershipstore.NewPostgres(pool), cyclestore.NewPostgres(pool)
}

// outboxStorage is the full outbox surface: the audit store inserts
// entries, the relay drains them.
type outboxStorage interface {
	outbox.Store
	Insert(ctx context.Context, entry outbox.Entry) error
}

func buildOutboxStore(pool *pgxpool.Pool) outboxStorage {
	if pool == nil {
		return outbox.NewMemoryStore()
	}
	return outbox.NewPostgresStore(pool)
}

func buildAuditStore(pool *pgxpool.Pool, entries outboxStorage) audit.Store {
	if pool == nil {
		return auditmemory.NewInMemoryStore()
	}
	return auditpostgres.New(pool, entries)
}

// buildIdentity assembles the member status provider. The static provider
// stands in until a real KYC integration is configured; Redis, when
// present, caches snapshots in front of it.
func buildIdentity(cfg config.Config, log *slog.Logger) (identity.Provider, identity.Sanctioner, error) {
	static := identity.NewStatic()

	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return static, static, nil
	}
	cache := identity.NewCache(static, client.Client, cfg.Redis.SnapshotTTL, identity.WithLogger(log))
	// Sanctions must be visible to the next risk evaluation, not after the
	// snapshot TTL runs out.
	return cache, identity.SanctionerWithInvalidation(static, cache), nil
}

// paymentConfirmer routes reconciled confirmations through the lifecycle
// coordinator so the per-group lock covers the write. The coordinator is
// resolved lazily to break the construction cycle with the reconciler.
type paymentConfirmer struct {
	coordinator func() *lifecycle.Coordinator
	groupFor    func(ctx context.Context, cycleID id.CycleID) (id.GroupID, error)
}

func (p paymentConfirmer) ConfirmPayment(ctx context.Context, cycleID id.CycleID, round int, payerID id.MembershipID, transactionID string, _ time.Time) error {
	groupID, err := p.groupFor(ctx, cycleID)
	if err != nil {
		return err
	}
	_, err = p.coordinator().ConfirmPayment(ctx, lifecycle.ConfirmRequest{
		GroupID:       groupID,
		CycleID:       cycleID,
		Round:         round,
		MembershipID:  payerID,
		TransactionID: transactionID,
	})
	return err
}

func groupForCycle(cycles registryports.CycleStore) func(ctx context.Context, cycleID id.CycleID) (id.GroupID, error) {
	return func(ctx context.Context, cycleID id.CycleID) (id.GroupID, error) {
		cycle, err := cycles.FindByID(ctx, cycleID)
		if err != nil {
			return id.GroupID{}, err
		}
		return cycle.GroupID, nil
	}
}

func riskConfig(cfg config.Risk) risk.Config {
	return risk.Config{
		HighContribution:  cfg.HighContribution,
		LargeGroupSize:    cfg.LargeGroupSize,
		NewCoordinatorAge: cfg.NewCoordinatorAge,
		NewMemberAge:      cfg.NewMemberAge,
		MaxFailedPayments: cfg.MaxFailedPayments,
		MaxPublicWarnings: cfg.MaxPublicWarnings,
		MaxGroupsLeft:     cfg.MaxGroupsLeft,
	}
}
