package cycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
	"ronda/pkg/platform/sentinel"
	txcontext "ronda/pkg/platform/tx"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists cycles and payment schedules in PostgreSQL.
// Obligations are stored as a JSONB column: they are only ever read and
// written as a unit under the round's version check.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed cycle store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) db(ctx context.Context) dbtx {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

func (s *PostgresStore) Create(ctx context.Context, cycle *models.TandaCycle) error {
	cycle.Version = 1
	query := `
		INSERT INTO tanda_cycles (id, group_id, status, round_count, current_round, started_at, completed_at, version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := s.db(ctx).Exec(ctx, query,
		cycle.ID.String(), cycle.GroupID.String(), string(cycle.Status),
		cycle.RoundCount, cycle.CurrentRound, cycle.StartedAt, cycle.CompletedAt, cycle.Version,
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, cycleID id.CycleID) (*models.TandaCycle, error) {
	query := `SELECT id, group_id, status, round_count, current_round, started_at, completed_at, version
		FROM tanda_cycles WHERE id = $1`

	cycle, err := scanCycle(s.db(ctx).QueryRow(ctx, query, cycleID.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cycle: %w", err)
	}
	return cycle, nil
}

func (s *PostgresStore) FindActiveByGroup(ctx context.Context, groupID id.GroupID) (*models.TandaCycle, error) {
	query := `SELECT id, group_id, status, round_count, current_round, started_at, completed_at, version
		FROM tanda_cycles WHERE group_id = $1 AND status = $2`

	cycle, err := scanCycle(s.db(ctx).QueryRow(ctx, query, groupID.String(), string(models.CycleActive)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find active cycle: %w", err)
	}
	return cycle, nil
}

func (s *PostgresStore) Update(ctx context.Context, cycle *models.TandaCycle) error {
	query := `
		UPDATE tanda_cycles SET
			status=$2, current_round=$3, completed_at=$4, version=version+1
		WHERE id=$1 AND version=$5
	`
	tag, err := s.db(ctx).Exec(ctx, query,
		cycle.ID.String(), string(cycle.Status), cycle.CurrentRound, cycle.CompletedAt, cycle.Version,
	)
	if err != nil {
		return fmt.Errorf("update cycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrVersionConflict
	}
	cycle.Version++
	return nil
}

func (s *PostgresStore) CreateSchedules(ctx context.Context, schedules []*models.PaymentSchedule) error {
	query := `
		INSERT INTO payment_schedules (cycle_id, round, recipient_id, due_date, obligations, version)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	for _, schedule := range schedules {
		schedule.Version = 1
		obligations, err := json.Marshal(schedule.Obligations)
		if err != nil {
			return fmt.Errorf("marshal obligations: %w", err)
		}
		if _, err := s.db(ctx).Exec(ctx, query,
			schedule.CycleID.String(), schedule.Round, schedule.RecipientID.String(),
			schedule.DueDate, obligations, schedule.Version,
		); err != nil {
			return fmt.Errorf("insert schedule round %d: %w", schedule.Round, err)
		}
	}
	return nil
}

func (s *PostgresStore) FindSchedule(ctx context.Context, cycleID id.CycleID, round int) (*models.PaymentSchedule, error) {
	query := `SELECT cycle_id, round, recipient_id, due_date, obligations, version
		FROM payment_schedules WHERE cycle_id = $1 AND round = $2`

	schedule, err := scanSchedule(s.db(ctx).QueryRow(ctx, query, cycleID.String(), round))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	return schedule, nil
}

func (s *PostgresStore) ListSchedules(ctx context.Context, cycleID id.CycleID) ([]*models.PaymentSchedule, error) {
	query := `SELECT cycle_id, round, recipient_id, due_date, obligations, version
		FROM payment_schedules WHERE cycle_id = $1 ORDER BY round`

	rows, err := s.db(ctx).Query(ctx, query, cycleID.String())
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	listed := make([]*models.PaymentSchedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		listed = append(listed, schedule)
	}
	return listed, rows.Err()
}

func (s *PostgresStore) UpdateSchedule(ctx context.Context, schedule *models.PaymentSchedule) error {
	obligations, err := json.Marshal(schedule.Obligations)
	if err != nil {
		return fmt.Errorf("marshal obligations: %w", err)
	}
	query := `
		UPDATE payment_schedules SET obligations=$3, version=version+1
		WHERE cycle_id=$1 AND round=$2 AND version=$4
	`
	tag, err := s.db(ctx).Exec(ctx, query,
		schedule.CycleID.String(), schedule.Round, obligations, schedule.Version,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrVersionConflict
	}
	schedule.Version++
	return nil
}

func scanCycle(row pgx.Row) (*models.TandaCycle, error) {
	var (
		cycle           models.TandaCycle
		rawID, rawGroup string
		status          string
	)
	err := row.Scan(&rawID, &rawGroup, &status, &cycle.RoundCount,
		&cycle.CurrentRound, &cycle.StartedAt, &cycle.CompletedAt, &cycle.Version)
	if err != nil {
		return nil, err
	}
	cycleID, err := id.ParseCycleID(rawID)
	if err != nil {
		return nil, err
	}
	groupID, err := id.ParseGroupID(rawGroup)
	if err != nil {
		return nil, err
	}
	cycle.ID = cycleID
	cycle.GroupID = groupID
	cycle.Status = models.CycleStatus(status)
	return &cycle, nil
}

func scanSchedule(row pgx.Row) (*models.PaymentSchedule, error) {
	var (
		schedule                 models.PaymentSchedule
		rawCycle, rawRecipient   string
		obligations              []byte
	)
	err := row.Scan(&rawCycle, &schedule.Round, &rawRecipient,
		&schedule.DueDate, &obligations, &schedule.Version)
	if err != nil {
		return nil, err
	}
	cycleID, err := id.ParseCycleID(rawCycle)
	if err != nil {
		return nil, err
	}
	recipientID, err := id.ParseMembershipID(rawRecipient)
	if err != nil {
		return nil, err
	}
	schedule.CycleID = cycleID
	schedule.RecipientID = recipientID
	if err := json.Unmarshal(obligations, &schedule.Obligations); err != nil {
		return nil, fmt.Errorf("unmarshal obligations: %w", err)
	}
	return &schedule, nil
}
