package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ronda/internal/audit"
	"ronda/internal/outbox"
	id "ronda/pkg/domain"
	txcontext "ronda/pkg/platform/tx"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Inserter is the outbox slice the store needs.
type Inserter interface {
	Insert(ctx context.Context, entry outbox.Entry) error
}

// Store persists audit events to Postgres and mirrors each one into the
// outbox so downstream consumers see the same trail. Both writes join the
// caller's transaction when one is in the context, which is what makes
// compliance emission fail-closed: the domain write and its audit record
// commit or roll back together.
type Store struct {
	pool   *pgxpool.Pool
	outbox Inserter
}

func New(pool *pgxpool.Pool, outbox Inserter) *Store {
	return &Store{pool: pool, outbox: outbox}
}

func (s *Store) db(ctx context.Context) dbtx {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

// payload is the JSON structure published through the outbox.
type payload struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	Timestamp       string   `json:"timestamp"`
	MemberID        string   `json:"member_id,omitempty"`
	GroupID         string   `json:"group_id,omitempty"`
	Subject         string   `json:"subject,omitempty"`
	Action          string   `json:"action"`
	Decision        string   `json:"decision,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	RequestID       string   `json:"request_id,omitempty"`
	ActorID         string   `json:"actor_id,omitempty"`
	Acknowledgments []string `json:"acknowledgments,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	var memberID, groupID *uuid.UUID
	if !event.MemberID.IsNil() {
		u := uuid.UUID(event.MemberID)
		memberID = &u
	}
	if !event.GroupID.IsNil() {
		u := uuid.UUID(event.GroupID)
		groupID = &u
	}

	acks, err := json.Marshal(event.Acknowledgments)
	if err != nil {
		return fmt.Errorf("marshal acknowledgments: %w", err)
	}

	_, err = s.db(ctx).Exec(ctx, `
		INSERT INTO audit_events (
			id, category, timestamp, member_id, group_id, subject,
			action, decision, reason, request_id, actor_id, acknowledgments
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		eventID, string(event.Category), event.Timestamp, memberID, groupID,
		event.Subject, event.Action, event.Decision, event.Reason,
		event.RequestID, event.ActorID, acks,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	body := payload{
		ID:              eventID.String(),
		Category:        string(event.Category),
		Timestamp:       event.Timestamp.Format(time.RFC3339Nano),
		Subject:         event.Subject,
		Action:          event.Action,
		Decision:        event.Decision,
		Reason:          event.Reason,
		RequestID:       event.RequestID,
		ActorID:         event.ActorID,
		Acknowledgments: event.Acknowledgments,
	}
	if memberID != nil {
		body.MemberID = memberID.String()
	}
	if groupID != nil {
		body.GroupID = groupID.String()
	}
	payloadBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "audit"
	aggregateID := eventID.String()
	if groupID != nil {
		aggregateType = "group"
		aggregateID = groupID.String()
	}
	return s.outbox.Insert(ctx, outbox.Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     event.Action,
		Payload:       payloadBytes,
		CreatedAt:     event.Timestamp,
	})
}

func (s *Store) ListByMember(ctx context.Context, memberID id.MemberID) ([]audit.Event, error) {
	return s.list(ctx, `
		SELECT category, timestamp, member_id, group_id, subject,
			   action, decision, reason, request_id, actor_id, acknowledgments
		FROM audit_events
		WHERE member_id = $1
		ORDER BY timestamp`, uuid.UUID(memberID))
}

func (s *Store) ListByGroup(ctx context.Context, groupID id.GroupID) ([]audit.Event, error) {
	return s.list(ctx, `
		SELECT category, timestamp, member_id, group_id, subject,
			   action, decision, reason, request_id, actor_id, acknowledgments
		FROM audit_events
		WHERE group_id = $1
		ORDER BY timestamp`, uuid.UUID(groupID))
}

func (s *Store) list(ctx context.Context, query string, arg any) ([]audit.Event, error) {
	rows, err := s.db(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			memberID *uuid.UUID
			groupID  *uuid.UUID
			acks     []byte
		)
		if err := rows.Scan(&category, &e.Timestamp, &memberID, &groupID, &e.Subject,
			&e.Action, &e.Decision, &e.Reason, &e.RequestID, &e.ActorID, &acks); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		if memberID != nil {
			e.MemberID = id.MemberID(*memberID)
		}
		if groupID != nil {
			e.GroupID = id.GroupID(*groupID)
		}
		if len(acks) > 0 {
			if err := json.Unmarshal(acks, &e.Acknowledgments); err != nil {
				return nil, fmt.Errorf("unmarshal acknowledgments: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
