// Package payments integrates the external payment gateway. Charges are
// two-phase on the registry side: an obligation goes pending_confirmation
// when the charge is issued and paid only when the gateway confirms.
package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	id "ronda/pkg/domain"
)

// ChargeRequest asks the gateway to collect one obligation.
type ChargeRequest struct {
	CycleID      id.CycleID
	Round        int
	MembershipID id.MembershipID
	Amount       int64
}

// ChargeResult is the gateway's confirmation.
type ChargeResult struct {
	TransactionID string
}

// Gateway is the external payment provider. Charge must be idempotent per
// (cycle, round, membership) on the provider side.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// StaticGateway confirms every charge immediately with a generated
// transaction id. It backs tests and local development.
type StaticGateway struct {
	mu      sync.Mutex
	charges map[string]ChargeResult
}

func NewStaticGateway() *StaticGateway {
	return &StaticGateway{charges: make(map[string]ChargeResult)}
}

func (g *StaticGateway) Charge(_ context.Context, req ChargeRequest) (ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := fmt.Sprintf("%s/%d/%s", req.CycleID, req.Round, req.MembershipID)
	if result, ok := g.charges[key]; ok {
		return result, nil
	}
	result := ChargeResult{TransactionID: "txn-" + uuid.NewString()}
	g.charges[key] = result
	return result, nil
}
