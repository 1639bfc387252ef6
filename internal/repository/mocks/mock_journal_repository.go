package mocks

import (
	"context"

	"caseledger/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Append(ctx context.Context, entry *model.JournalEntry) (*model.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if f, ok := args.Get(0).(func(context.Context, *model.JournalEntry) *model.JournalEntry); ok {
		return f(ctx, entry), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) LastByCase(ctx context.Context, caseID string) (*model.JournalEntry, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListByCase(ctx context.Context, caseID string) ([]model.JournalEntry, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JournalEntry), args.Error(1)
}
