package group

import (
	"context"
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

// dbtx is the query surface shared by pgx.Tx and *pgxpool.Pool so stores can
// run inside a caller-provided transaction when one is in context.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists groups in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed group store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) db(ctx context.Context) dbtx {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

const groupColumns = `id, name, group_type, contribution, frequency, min_members, max_members,
	privacy, coordinator_id, status, location, trust_score, created_at,
	public_warnings, failed_payments, verified_members, member_count,
	total_collected, completed_cycles, version`

func (s *PostgresStore) Create(ctx context.Context, group *models.Group) error {
	group.Version = 1
	query := `
		INSERT INTO groups (` + groupColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`
	_, err := s.db(ctx).Exec(ctx, query,
		group.ID.String(), group.Name, group.Type, group.Contribution, string(group.Frequency),
		group.MinMembers, group.MaxMembers, string(group.Privacy), group.CoordinatorID.String(),
		string(group.Status), group.Location, group.TrustScore, group.CreatedAt,
		group.PublicWarnings, group.FailedPayments, group.VerifiedMembers, group.MemberCount,
		group.TotalCollected, group.CompletedCycles, group.Version,
	)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`

	group, err := scanGroup(s.db(ctx).QueryRow(ctx, query, groupID.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find group: %w", err)
	}
	return group, nil
}

func (s *PostgresStore) Update(ctx context.Context, group *models.Group) error {
	query := `
		UPDATE groups SET
			name=$2, group_type=$3, contribution=$4, frequency=$5, min_members=$6,
			max_members=$7, privacy=$8, coordinator_id=$9, status=$10, location=$11,
			trust_score=$12, public_warnings=$13, failed_payments=$14,
			verified_members=$15, member_count=$16, total_collected=$17,
			completed_cycles=$18, version=version+1
		WHERE id=$1 AND version=$19
	`
	tag, err := s.db(ctx).Exec(ctx, query,
		group.ID.String(), group.Name, group.Type, group.Contribution, string(group.Frequency),
		group.MinMembers, group.MaxMembers, string(group.Privacy), group.CoordinatorID.String(),
		string(group.Status), group.Location, group.TrustScore,
		group.PublicWarnings, group.FailedPayments, group.VerifiedMembers, group.MemberCount,
		group.TotalCollected, group.CompletedCycles, group.Version,
	)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrVersionConflict
	}
	group.Version++
	return nil
}

func (s *PostgresStore) ListOpen(ctx context.Context) ([]*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE status = $1 ORDER BY created_at`

	rows, err := s.db(ctx).Query(ctx, query, string(models.GroupRecruiting))
	if err != nil {
		return nil, fmt.Errorf("list open groups: %w", err)
	}
	defer rows.Close()

	open := make([]*models.Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		open = append(open, group)
	}
	return open, rows.Err()
}

func scanGroup(row pgx.Row) (*models.Group, error) {
	var (
		group                 models.Group
		rawID, rawCoordinator string
		frequency, status     string
		privacy               string
	)
	err := row.Scan(
		&rawID, &group.Name, &group.Type, &group.Contribution, &frequency,
		&group.MinMembers, &group.MaxMembers, &privacy, &rawCoordinator,
		&status, &group.Location, &group.TrustScore, &group.CreatedAt,
		&group.PublicWarnings, &group.FailedPayments, &group.VerifiedMembers,
		&group.MemberCount, &group.TotalCollected, &group.CompletedCycles, &group.Version,
	)
	if err != nil {
		return nil, err
	}
	groupID, err := id.ParseGroupID(rawID)
	if err != nil {
		return nil, err
	}
	coordinatorID, err := id.ParseMemberID(rawCoordinator)
	if err != nil {
		return nil, err
	}
	group.ID = groupID
	group.CoordinatorID = coordinatorID
	group.Frequency = models.Frequency(frequency)
	group.Status = models.GroupStatus(status)
	group.Privacy = models.Privacy(privacy)
	return &group, nil
}
