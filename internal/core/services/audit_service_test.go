package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type AuditServiceTestSuite struct {
	suite.Suite
	mockAuditRepo *MockAuditRepository
	service       portssvc.AuditSvcFacade
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewAuditService(suite.mockAuditRepo)
}

// --- Test Cases ---

func (suite *AuditServiceTestSuite) TestRecordAction_FillsIDAndTimestamp() {
	ctx := context.Background()

	suite.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).
		Run(func(args mock.Arguments) {
			record := args.Get(1).(domain.AuditRecord)
			suite.NotEmpty(record.AuditID)
			suite.False(record.CreatedAt.IsZero())
			suite.Equal("day_book", record.EntityType)
			suite.Equal(domain.AuditActionClose, record.Action)
		}).
		Return(nil).Once()

	suite.service.RecordAction(ctx, domain.AuditRecord{
		EntityType:  "day_book",
		EntityID:    uuid.NewString(),
		Action:      domain.AuditActionClose,
		PerformedBy: uuid.NewString(),
	})

	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestRecordAction_SaveFailureIsSwallowed() {
	ctx := context.Background()

	suite.mockAuditRepo.On("SaveAuditRecord", ctx, mock.AnythingOfType("domain.AuditRecord")).
		Return(assert.AnError).Once()

	// RecordAction must never fail the operation it documents.
	suite.service.RecordAction(ctx, domain.AuditRecord{
		EntityType:  "account_transaction",
		EntityID:    uuid.NewString(),
		Action:      domain.AuditActionApply,
		PerformedBy: uuid.NewString(),
	})

	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestListByEntity_DefaultLimit() {
	ctx := context.Background()
	entityID := uuid.NewString()

	suite.mockAuditRepo.On("ListAuditRecordsByEntity", ctx, "journal_entry", entityID, 50).
		Return(nil, nil).Once()

	records, err := suite.service.ListByEntity(ctx, "journal_entry", entityID, 0)

	suite.Require().NoError(err)
	suite.NotNil(records)
	suite.Empty(records)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestListByStaff() {
	ctx := context.Background()
	staffID := uuid.NewString()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	records := []domain.AuditRecord{
		{AuditID: uuid.NewString(), EntityType: "day_book", Action: domain.AuditActionReconcile, PerformedBy: staffID},
	}

	suite.mockAuditRepo.On("ListAuditRecordsByStaff", ctx, staffID, from, to, 50).
		Return(records, nil).Once()

	got, err := suite.service.ListByStaff(ctx, staffID, from, to, 0)

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal(domain.AuditActionReconcile, got[0].Action)
}

// --- Run Test Suite ---
func TestAuditService(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
