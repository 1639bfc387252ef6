package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"caseledger/internal/model"
	repoMocks "caseledger/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type registryFixture struct {
	repo    *repoMocks.MockCaseRepository
	journal *fakeJournalRepo
	svc     *registryService
}

func newRegistryFixture() *registryFixture {
	f := &registryFixture{
		repo:    new(repoMocks.MockCaseRepository),
		journal: newFakeJournalRepo(),
	}
	f.svc = NewRegistryService(f.repo, NewJournalService(f.journal, f.repo)).(*registryService)
	f.svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return f
}

func echoCase(ctx context.Context, c *model.Case) *model.Case {
	out := *c
	return &out
}

func (f *registryFixture) lastEntry(t *testing.T, caseID string) *model.JournalEntry {
	t.Helper()
	last, err := f.journal.LastByCase(context.Background(), caseID)
	require.NoError(t, err)
	require.NotNil(t, last)
	return last
}

func TestCreateCase(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and journals case-created", func(t *testing.T) {
		f := newRegistryFixture()
		f.repo.On("Create", ctx, mock.Anything).Return(echoCase, nil)
		f.repo.On("Exists", ctx, mock.Anything).Return(true, nil)

		c, err := f.svc.CreateCase(ctx, "admin", "Harbor fraud", "NL", []string{"fraud"})
		require.NoError(t, err)

		assert.True(t, len(c.ID) > 5 && c.ID[:5] == "case_")
		assert.Equal(t, "Harbor fraud", c.Title)
		assert.Equal(t, "NL", c.Jurisdiction)
		assert.Equal(t, []string{"fraud"}, c.Tags)
		assert.Equal(t, int64(1700000000), c.CreatedAt)
		assert.Equal(t, c.CreatedAt, c.UpdatedAt)
		assert.Nil(t, c.ArchivedAt)

		entry := f.lastEntry(t, c.ID)
		assert.Equal(t, model.ActionCaseCreated, entry.ActionType)
		assert.Equal(t, "admin", entry.Actor)
		assert.Equal(t, "Harbor fraud", entry.Payload["title"])
	})

	t.Run("nil tags become an empty list", func(t *testing.T) {
		f := newRegistryFixture()
		f.repo.On("Create", ctx, mock.Anything).Return(echoCase, nil)
		f.repo.On("Exists", ctx, mock.Anything).Return(true, nil)

		c, err := f.svc.CreateCase(ctx, "admin", "Untitled", "", nil)
		require.NoError(t, err)
		assert.NotNil(t, c.Tags)
		assert.Empty(t, c.Tags)
	})

	t.Run("title is required", func(t *testing.T) {
		f := newRegistryFixture()
		_, err := f.svc.CreateCase(ctx, "admin", "", "NL", nil)
		assert.Error(t, err)
		f.repo.AssertNotCalled(t, "Create")
	})
}

func TestUpdateCase(t *testing.T) {
	ctx := context.Background()

	existing := &model.Case{
		ID:           "case_1",
		Title:        "Old title",
		Jurisdiction: "NL",
		Tags:         []string{"fraud"},
		CreatedAt:    1699990000,
		UpdatedAt:    1699990000,
	}

	t.Run("updates and journals case-updated", func(t *testing.T) {
		f := newRegistryFixture()
		f.repo.On("FindByID", ctx, "case_1").Return(existing, nil)
		f.repo.On("Update", ctx, mock.Anything).Return(echoCase, nil)
		f.repo.On("Exists", ctx, "case_1").Return(true, nil)

		c, err := f.svc.UpdateCase(ctx, "admin", "case_1", "New title", "DE", []string{"fraud", "customs"})
		require.NoError(t, err)
		assert.Equal(t, "New title", c.Title)
		assert.Equal(t, "DE", c.Jurisdiction)
		assert.Equal(t, int64(1700000000), c.UpdatedAt)

		entry := f.lastEntry(t, "case_1")
		assert.Equal(t, model.ActionCaseUpdated, entry.ActionType)
		assert.Equal(t, "New title", entry.Payload["title"])
	})

	t.Run("unknown case", func(t *testing.T) {
		f := newRegistryFixture()
		f.repo.On("FindByID", ctx, "case_missing").Return(nil, sql.ErrNoRows)

		_, err := f.svc.UpdateCase(ctx, "admin", "case_missing", "t", "", nil)
		assert.ErrorIs(t, err, ErrInvalidCase)
	})
}

func TestArchiveCase(t *testing.T) {
	ctx := context.Background()

	f := newRegistryFixture()
	f.repo.On("FindByID", ctx, "case_1").Return(&model.Case{ID: "case_1", Title: "t"}, nil)
	f.repo.On("Update", ctx, mock.Anything).Return(echoCase, nil)
	f.repo.On("Exists", ctx, "case_1").Return(true, nil)

	c, err := f.svc.ArchiveCase(ctx, "admin", "case_1")
	require.NoError(t, err)
	require.NotNil(t, c.ArchivedAt)
	assert.Equal(t, int64(1700000000), *c.ArchivedAt)

	entry := f.lastEntry(t, "case_1")
	assert.Equal(t, model.ActionCaseArchived, entry.ActionType)
	assert.EqualValues(t, 1700000000, entry.Payload["archived_at"])
}

func TestGetCase(t *testing.T) {
	ctx := context.Background()

	f := newRegistryFixture()
	want := &model.Case{ID: "case_1", Title: "t"}
	f.repo.On("FindByID", ctx, "case_1").Return(want, nil)

	got, err := f.svc.GetCase(ctx, "case_1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
