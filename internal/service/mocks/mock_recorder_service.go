package mocks

import (
	"context"

	"caseledger/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRecorderService struct {
	mock.Mock
}

func (m *MockRecorderService) RecordDocumentUpload(ctx context.Context, caseID, actor, filename, mime string, data []byte) (*model.Document, *model.JournalEntry, error) {
	args := m.Called(ctx, caseID, actor, filename, mime, data)
	doc, _ := args.Get(0).(*model.Document)
	entry, _ := args.Get(1).(*model.JournalEntry)
	return doc, entry, args.Error(2)
}

func (m *MockRecorderService) Rejournal(ctx context.Context, caseID, actor, documentID string) (*model.JournalEntry, error) {
	args := m.Called(ctx, caseID, actor, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JournalEntry), args.Error(1)
}

func (m *MockRecorderService) ListDocuments(ctx context.Context, caseID string) ([]model.Document, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockRecorderService) DocumentContent(ctx context.Context, caseID, documentID string) (*model.Document, []byte, error) {
	args := m.Called(ctx, caseID, documentID)
	doc, _ := args.Get(0).(*model.Document)
	data, _ := args.Get(1).([]byte)
	return doc, data, args.Error(2)
}
