package ruleset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"spendgate/internal/authorize/config"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	orgID id.OrgID
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()

	var err error
	s.orgID, err = id.ParseOrgID("7b9a3a1e-9b4e-4f54-a3ad-6a9d2f1c8e11")
	s.Require().NoError(err)
}

func (s *InMemoryStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, s.orgID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *InMemoryStoreSuite) TestPutThenGet() {
	rs := config.DefaultRuleset()
	s.Require().NoError(s.store.Put(s.ctx, s.orgID, rs))

	got, err := s.store.Get(s.ctx, s.orgID)
	s.NoError(err)
	s.Equal(rs.SnapshotID, got.SnapshotID)
	s.Equal(rs.ApprovedRegions, got.ApprovedRegions)
}

func (s *InMemoryStoreSuite) TestPutValidates() {
	rs := config.DefaultRuleset()
	rs.SnapshotID = "  "

	err := s.store.Put(s.ctx, s.orgID, rs)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *InMemoryStoreSuite) TestPutNormalizesRegions() {
	rs := config.DefaultRuleset()
	rs.ApprovedRegions = []string{" Kampala ", "Kampala", "", "Jinja"}
	s.Require().NoError(s.store.Put(s.ctx, s.orgID, rs))

	got, err := s.store.Get(s.ctx, s.orgID)
	s.NoError(err)
	s.Equal([]string{"Kampala", "Jinja"}, got.ApprovedRegions)
}
