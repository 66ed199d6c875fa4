//go:build integration

package group_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ronda/internal/registry/models"
	"ronda/internal/registry/store/group"
	id "ronda/pkg/domain"
	"ronda/pkg/platform/sentinel"
	"ronda/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *group.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = group.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"payment_schedules", "tanda_cycles", "memberships", "audit_events", "outbox", "groups")
	s.Require().NoError(err)
}

func newTestGroup() *models.Group {
	return &models.Group{
		ID:            id.NewGroupID(),
		Name:          "Cundina Postgres",
		Contribution:  1000,
		Frequency:     models.FrequencyWeekly,
		MinMembers:    3,
		MaxMembers:    5,
		Privacy:       models.PrivacyPublic,
		CoordinatorID: id.NewMemberID(),
		Status:        models.GroupRecruiting,
		MemberCount:   1,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	created := newTestGroup()
	s.Require().NoError(s.store.Create(ctx, created))

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Name, found.Name)
	s.Equal(created.CoordinatorID, found.CoordinatorID)
	s.Equal(created.Frequency, found.Frequency)
	s.Equal(int64(1), found.Version)
}

func (s *PostgresStoreSuite) TestFindUnknownID() {
	_, err := s.store.FindByID(context.Background(), id.NewGroupID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListOpenFiltersByStatus() {
	ctx := context.Background()

	recruiting := newTestGroup()
	s.Require().NoError(s.store.Create(ctx, recruiting))

	active := newTestGroup()
	active.Status = models.GroupActive
	s.Require().NoError(s.store.Create(ctx, active))

	open, err := s.store.ListOpen(ctx)
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(recruiting.ID, open[0].ID)
}

// TestConcurrentUpdates verifies that the optimistic version check lets
// exactly one of many racing writers through per version.
func (s *PostgresStoreSuite) TestConcurrentUpdates() {
	ctx := context.Background()
	created := newTestGroup()
	s.Require().NoError(s.store.Create(ctx, created))

	const goroutines = 20
	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			candidate := *created
			candidate.MemberCount = 2
			err := s.store.Update(ctx, &candidate)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrVersionConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one update should win")
	s.Equal(int32(goroutines-1), conflictCount.Load())

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(2, found.MemberCount)
	s.Equal(int64(2), found.Version)
}
