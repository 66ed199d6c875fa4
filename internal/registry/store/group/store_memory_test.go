package group

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ronda/internal/registry/models"
	id "ronda/pkg/domain"
	"ronda/pkg/platform/sentinel"
)

type GroupStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *GroupStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestGroupStoreSuite(t *testing.T) {
	suite.Run(t, new(GroupStoreSuite))
}

func (s *GroupStoreSuite) newGroup(name string) *models.Group {
	return &models.Group{
		ID:            id.NewGroupID(),
		Name:          name,
		Contribution:  1000,
		Frequency:     models.FrequencyWeekly,
		MinMembers:    3,
		MaxMembers:    5,
		Privacy:       models.PrivacyPublic,
		CoordinatorID: id.NewMemberID(),
		Status:        models.GroupRecruiting,
		MemberCount:   1,
		CreatedAt:     time.Now(),
	}
}

func (s *GroupStoreSuite) TestCreationAndLookup() {
	s.Run("creates and finds group by ID", func() {
		group := s.newGroup("Cundina A")
		s.Require().NoError(s.store.Create(s.ctx, group))

		found, err := s.store.FindByID(s.ctx, group.ID)
		s.Require().NoError(err)
		s.Equal(group.Name, found.Name)
		s.Equal(int64(1), found.Version)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewGroupID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate ID", func() {
		group := s.newGroup("Cundina B")
		s.Require().NoError(s.store.Create(s.ctx, group))
		s.Require().ErrorIs(s.store.Create(s.ctx, group), sentinel.ErrConflict)
	})
}

func (s *GroupStoreSuite) TestOptimisticVersioning() {
	group := s.newGroup("Cundina C")
	s.Require().NoError(s.store.Create(s.ctx, group))

	s.Run("update bumps version", func() {
		group.MemberCount = 2
		s.Require().NoError(s.store.Update(s.ctx, group))
		s.Equal(int64(2), group.Version)
	})

	s.Run("stale version fails", func() {
		stale := *group
		stale.Version = 1
		s.Require().ErrorIs(s.store.Update(s.ctx, &stale), sentinel.ErrVersionConflict)
	})

	s.Run("reads return copies", func() {
		found, err := s.store.FindByID(s.ctx, group.ID)
		s.Require().NoError(err)
		found.Name = "mutated"

		again, err := s.store.FindByID(s.ctx, group.ID)
		s.Require().NoError(err)
		s.Equal("Cundina C", again.Name)
	})
}

func (s *GroupStoreSuite) TestListOpen() {
	recruiting := s.newGroup("Open")
	s.Require().NoError(s.store.Create(s.ctx, recruiting))

	active := s.newGroup("Running")
	active.Status = models.GroupActive
	s.Require().NoError(s.store.Create(s.ctx, active))

	open, err := s.store.ListOpen(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(recruiting.ID, open[0].ID)
}
