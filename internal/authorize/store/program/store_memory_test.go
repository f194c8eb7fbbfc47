package program

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/ports"
	id "spendgate/pkg/domain"
	dErrors "spendgate/pkg/domain-errors"
)

type InMemoryRegistrySuite struct {
	suite.Suite
	registry *InMemoryRegistry
	orgID    id.OrgID
	ctx      context.Context
}

func TestInMemoryRegistrySuite(t *testing.T) {
	suite.Run(t, new(InMemoryRegistrySuite))
}

func (s *InMemoryRegistrySuite) SetupTest() {
	s.registry = NewInMemory()
	s.ctx = context.Background()

	var err error
	s.orgID, err = id.ParseOrgID("2f6c5e02-64cf-44a8-9e54-3a2bbf0d7c91")
	s.Require().NoError(err)
}

func (s *InMemoryRegistrySuite) TestGetMissing() {
	_, err := s.registry.Get(s.ctx, s.orgID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *InMemoryRegistrySuite) TestPutThenGet() {
	record := ports.ProgramRecord{
		Status: models.ProgramBillingDelinquent,
		Grace:  models.GraceWindow{Enabled: true, Expiry: time.Now().Add(time.Hour).UTC()},
	}
	s.Require().NoError(s.registry.Put(s.ctx, s.orgID, record))

	got, err := s.registry.Get(s.ctx, s.orgID)
	s.NoError(err)
	s.Equal(record, got)
}

func (s *InMemoryRegistrySuite) TestPutRejectsUnknownStatus() {
	err := s.registry.Put(s.ctx, s.orgID, ports.ProgramRecord{Status: "mystery"})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
