package mocks

import (
	"context"

	"caseledger/internal/model"
	"caseledger/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) Append(ctx context.Context, caseID, actor string, action model.ActionType, payload map[string]any) (*model.JournalEntry, error) {
	args := m.Called(ctx, caseID, actor, action, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListByCase(ctx context.Context, caseID string) ([]model.JournalEntry, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JournalEntry), args.Error(1)
}

func (m *MockJournalService) Verify(entry *model.JournalEntry) bool {
	args := m.Called(entry)
	return args.Bool(0)
}

func (m *MockJournalService) VerifyChain(ctx context.Context, caseID string) (*service.ChainReport, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChainReport), args.Error(1)
}
