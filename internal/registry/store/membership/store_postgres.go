package membership

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

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists memberships in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed membership store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) db(ctx context.Context) dbtx {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.pool
}

const membershipColumns = `id, group_id, member_id, role, joined_at, pay_order, order_assigned,
	acknowledgments, active, left_at, version`

func (s *PostgresStore) Create(ctx context.Context, membership *models.Membership) error {
	membership.Version = 1
	query := `
		INSERT INTO memberships (` + membershipColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := s.db(ctx).Exec(ctx, query,
		membership.ID.String(), membership.GroupID.String(), membership.MemberID.String(),
		string(membership.Role), membership.JoinedAt, membership.PayOrder, membership.OrderAssigned,
		membership.Acknowledgments, membership.Active, membership.LeftAt, membership.Version,
	)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, membershipID id.MembershipID) (*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1`

	membership, err := scanMembership(s.db(ctx).QueryRow(ctx, query, membershipID.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	return membership, nil
}

func (s *PostgresStore) FindActive(ctx context.Context, groupID id.GroupID, memberID id.MemberID) (*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships
		WHERE group_id = $1 AND member_id = $2 AND active`

	membership, err := scanMembership(s.db(ctx).QueryRow(ctx, query, groupID.String(), memberID.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find active membership: %w", err)
	}
	return membership, nil
}

func (s *PostgresStore) ListActiveByGroup(ctx context.Context, groupID id.GroupID) ([]*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships
		WHERE group_id = $1 AND active ORDER BY joined_at, id`

	rows, err := s.db(ctx).Query(ctx, query, groupID.String())
	if err != nil {
		return nil, fmt.Errorf("list active memberships: %w", err)
	}
	defer rows.Close()

	active := make([]*models.Membership, 0)
	for rows.Next() {
		membership, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		active = append(active, membership)
	}
	return active, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, membership *models.Membership) error {
	query := `
		UPDATE memberships SET
			role=$2, pay_order=$3, order_assigned=$4, acknowledgments=$5,
			active=$6, left_at=$7, version=version+1
		WHERE id=$1 AND version=$8
	`
	tag, err := s.db(ctx).Exec(ctx, query,
		membership.ID.String(), string(membership.Role), membership.PayOrder,
		membership.OrderAssigned, membership.Acknowledgments, membership.Active,
		membership.LeftAt, membership.Version,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrVersionConflict
	}
	membership.Version++
	return nil
}

func scanMembership(row pgx.Row) (*models.Membership, error) {
	var (
		membership                   models.Membership
		rawID, rawGroup, rawMember   string
		role                         string
	)
	err := row.Scan(
		&rawID, &rawGroup, &rawMember, &role, &membership.JoinedAt,
		&membership.PayOrder, &membership.OrderAssigned, &membership.Acknowledgments,
		&membership.Active, &membership.LeftAt, &membership.Version,
	)
	if err != nil {
		return nil, err
	}
	membershipID, err := id.ParseMembershipID(rawID)
	if err != nil {
		return nil, err
	}
	groupID, err := id.ParseGroupID(rawGroup)
	if err != nil {
		return nil, err
	}
	memberID, err := id.ParseMemberID(rawMember)
	if err != nil {
		return nil, err
	}
	membership.ID = membershipID
	membership.GroupID = groupID
	membership.MemberID = memberID
	membership.Role = models.Role(role)
	return &membership, nil
}
