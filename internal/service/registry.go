package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"caseledger/internal/integrity"
	"caseledger/internal/model"
	"caseledger/internal/repository"
)

// RegistryService is the case registry collaborator. Every mutation it makes
// goes through the journal: case-created, case-updated, case-archived.
type RegistryService interface {
	CreateCase(ctx context.Context, actor, title, jurisdiction string, tags []string) (*model.Case, error)
	UpdateCase(ctx context.Context, actor, id, title, jurisdiction string, tags []string) (*model.Case, error)
	ArchiveCase(ctx context.Context, actor, id string) (*model.Case, error)
	GetCase(ctx context.Context, id string) (*model.Case, error)
}

type registryService struct {
	repo    repository.CaseRepository
	journal JournalService
	now     func() time.Time
}

// NewRegistryService constructs a RegistryService.
func NewRegistryService(repo repository.CaseRepository, journal JournalService) RegistryService {
	return &registryService{repo: repo, journal: journal, now: time.Now}
}

func (s *registryService) CreateCase(ctx context.Context, actor, title, jurisdiction string, tags []string) (*model.Case, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if tags == nil {
		tags = []string{}
	}
	now := s.now().Unix()
	c := &model.Case{
		ID:           integrity.NewID("case"),
		Title:        title,
		Jurisdiction: jurisdiction,
		Tags:         tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}

	if _, err := s.journal.Append(ctx, stored.ID, actor, model.ActionCaseCreated, casePayload(stored)); err != nil {
		return stored, fmt.Errorf("journal case-created: %w", err)
	}
	return stored, nil
}

func (s *registryService) UpdateCase(ctx context.Context, actor, id, title, jurisdiction string, tags []string) (*model.Case, error) {
	c, err := s.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != "" {
		c.Title = title
	}
	c.Jurisdiction = jurisdiction
	if tags != nil {
		c.Tags = tags
	}
	c.UpdatedAt = s.now().Unix()

	stored, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update case: %w", err)
	}
	if _, err := s.journal.Append(ctx, stored.ID, actor, model.ActionCaseUpdated, casePayload(stored)); err != nil {
		return stored, fmt.Errorf("journal case-updated: %w", err)
	}
	return stored, nil
}

func (s *registryService) ArchiveCase(ctx context.Context, actor, id string) (*model.Case, error) {
	c, err := s.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	ts := s.now().Unix()
	c.ArchivedAt = &ts
	c.UpdatedAt = ts

	stored, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("archive case: %w", err)
	}
	if _, err := s.journal.Append(ctx, stored.ID, actor, model.ActionCaseArchived, map[string]any{
		"archived_at": ts,
	}); err != nil {
		return stored, fmt.Errorf("journal case-archived: %w", err)
	}
	return stored, nil
}

func (s *registryService) GetCase(ctx context.Context, id string) (*model.Case, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCase
		}
		return nil, err
	}
	return c, nil
}

func casePayload(c *model.Case) map[string]any {
	return map[string]any{
		"title":        c.Title,
		"jurisdiction": c.Jurisdiction,
		"tags":         c.Tags,
	}
}
