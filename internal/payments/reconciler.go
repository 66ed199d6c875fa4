package payments

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	id "ronda/pkg/domain"
)

// Confirmer is the registry slice the reconciler needs to finalize a
// charge once the gateway confirms it.
type Confirmer interface {
	ConfirmPayment(ctx context.Context, cycleID id.CycleID, round int, payerID id.MembershipID, transactionID string, now time.Time) error
}

// FailureHandler is invoked when a charge is given up on, so the group's
// failed-payment counter and audit trail reflect it.
type FailureHandler func(ctx context.Context, req ChargeRequest, err error)

// Reconciler retries charges that did not confirm on the first attempt.
// Obligations stay pending_confirmation until either the gateway confirms
// or retries are exhausted and the failure handler records the default.
type Reconciler struct {
	gateway    Gateway
	confirmer  Confirmer
	onFailure  FailureHandler
	queue      chan ChargeRequest
	maxElapsed time.Duration
	logger     *slog.Logger
}

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithLogger sets the reconciler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// WithMaxElapsed bounds the total retry window per charge.
func WithMaxElapsed(max time.Duration) Option {
	return func(r *Reconciler) { r.maxElapsed = max }
}

func NewReconciler(gateway Gateway, confirmer Confirmer, onFailure FailureHandler, buffer int, opts ...Option) *Reconciler {
	r := &Reconciler{
		gateway:    gateway,
		confirmer:  confirmer,
		onFailure:  onFailure,
		queue:      make(chan ChargeRequest, buffer),
		maxElapsed: 5 * time.Minute,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enqueue schedules a charge for retry. A full queue drops the request;
// the obligation stays pending_confirmation and a later sweep or manual
// retry picks it up.
func (r *Reconciler) Enqueue(ctx context.Context, req ChargeRequest) {
	select {
	case r.queue <- req:
	default:
		r.logger.WarnContext(ctx, "reconciler queue full, charge left pending",
			"cycle_id", req.CycleID,
			"round", req.Round,
			"membership_id", req.MembershipID,
		)
	}
}

// Run retries queued charges until the context is canceled.
func (r *Reconciler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-r.queue:
			r.reconcile(ctx, req)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context, req ChargeRequest) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = r.maxElapsed

	var result ChargeResult
	err := backoff.Retry(func() error {
		var chargeErr error
		result, chargeErr = r.gateway.Charge(ctx, req)
		return chargeErr
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		r.logger.ErrorContext(ctx, "charge abandoned after retries",
			"cycle_id", req.CycleID,
			"round", req.Round,
			"membership_id", req.MembershipID,
			"error", err,
		)
		if r.onFailure != nil {
			r.onFailure(ctx, req, err)
		}
		return
	}

	// The charge went through, so the confirmation must land. Version
	// conflicts from concurrent writes resolve on retry; exhaustion goes to
	// the failure handler so the obligation is not silently stranded.
	confirmPolicy := backoff.NewExponentialBackOff()
	confirmPolicy.MaxElapsedTime = r.maxElapsed
	err = backoff.Retry(func() error {
		return r.confirmer.ConfirmPayment(ctx, req.CycleID, req.Round, req.MembershipID, result.TransactionID, time.Now())
	}, backoff.WithContext(confirmPolicy, ctx))
	if err != nil {
		r.logger.ErrorContext(ctx, "confirmation abandoned after retries",
			"cycle_id", req.CycleID,
			"round", req.Round,
			"membership_id", req.MembershipID,
			"transaction_id", result.TransactionID,
			"error", err,
		)
		if r.onFailure != nil {
			r.onFailure(ctx, req, err)
		}
	}
}
