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

// BlobStore is the content-addressed storage the recorder writes bytes to.
// Implemented by storage.BlobStore.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Get(ctx context.Context, digest string) ([]byte, error)
}

// RecorderService turns case actions into exactly one journal entry each,
// plus a document-store write where the action carries content. It owns
// neither store; it coordinates them.
type RecorderService interface {
	// RecordDocumentUpload stores the bytes, creates the document record and
	// appends a document-uploaded journal entry. If journaling fails after
	// the document exists, the returned error is a *PartialRecordError
	// carrying the document id; Rejournal recovers from that state.
	RecordDocumentUpload(ctx context.Context, caseID, actor, filename, mime string, data []byte) (*model.Document, *model.JournalEntry, error)

	// Rejournal appends the document-uploaded entry for an already stored
	// document without touching its bytes. Re-entrant by document id.
	Rejournal(ctx context.Context, caseID, actor, documentID string) (*model.JournalEntry, error)

	// ListDocuments returns a case's documents ordered by import time.
	ListDocuments(ctx context.Context, caseID string) ([]model.Document, error)

	// DocumentContent returns a document's metadata and raw bytes. The
	// bytes are re-hashed on the way out; a digest mismatch is surfaced as
	// ErrContentMismatch, never silently corrected.
	DocumentContent(ctx context.Context, caseID, documentID string) (*model.Document, []byte, error)
}

type recorderService struct {
	blobs   BlobStore
	docs    repository.DocumentRepository
	cases   repository.CaseRepository
	journal JournalService
	now     func() time.Time
}

// NewRecorderService constructs a RecorderService.
func NewRecorderService(blobs BlobStore, docs repository.DocumentRepository, cases repository.CaseRepository, journal JournalService) RecorderService {
	return &recorderService{
		blobs:   blobs,
		docs:    docs,
		cases:   cases,
		journal: journal,
		now:     time.Now,
	}
}

func (s *recorderService) RecordDocumentUpload(ctx context.Context, caseID, actor, filename, mime string, data []byte) (*model.Document, *model.JournalEntry, error) {
	if filename == "" {
		return nil, nil, fmt.Errorf("filename is required")
	}
	if mime == "" {
		mime = "application/octet-stream"
	}

	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return nil, nil, fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return nil, nil, ErrInvalidCase
	}

	// The digest is computed from the bytes here; nothing the caller claims
	// about the content is trusted. Re-uploading identical bytes is a no-op
	// at the blob layer.
	digest, err := s.blobs.Put(ctx, data, mime)
	if err != nil {
		return nil, nil, fmt.Errorf("store content: %w", err)
	}

	doc := &model.Document{
		ID:         integrity.NewID("doc"),
		CaseID:     caseID,
		Filename:   filename,
		Mime:       mime,
		SHA256:     digest,
		ImportedAt: s.now().Unix(),
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		return nil, nil, fmt.Errorf("create document record: %w", err)
	}

	entry, err := s.journal.Append(ctx, caseID, actor, model.ActionDocumentUploaded, uploadPayload(stored))
	if err != nil {
		return stored, nil, &PartialRecordError{DocumentID: stored.ID, Err: err}
	}
	return stored, entry, nil
}

func (s *recorderService) Rejournal(ctx context.Context, caseID, actor, documentID string) (*model.JournalEntry, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if doc.CaseID != caseID {
		return nil, ErrDocumentNotFound
	}
	return s.journal.Append(ctx, caseID, actor, model.ActionDocumentUploaded, uploadPayload(doc))
}

func (s *recorderService) ListDocuments(ctx context.Context, caseID string) ([]model.Document, error) {
	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("check case: %w", err)
	}
	if !exists {
		return nil, ErrInvalidCase
	}
	return s.docs.ListByCase(ctx, caseID)
}

func (s *recorderService) DocumentContent(ctx context.Context, caseID, documentID string) (*model.Document, []byte, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}
	if doc.CaseID != caseID {
		return nil, nil, ErrDocumentNotFound
	}

	data, err := s.blobs.Get(ctx, doc.SHA256)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch content: %w", err)
	}
	if integrity.Digest(data) != doc.SHA256 {
		return nil, nil, ErrContentMismatch
	}
	return doc, data, nil
}

// uploadPayload is the journal payload shape for document-uploaded entries.
// Rejournal must produce the same shape so retries hash identically.
func uploadPayload(doc *model.Document) map[string]any {
	return map[string]any{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"mime":        doc.Mime,
		"sha256":      doc.SHA256,
	}
}
