package handler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"caseledger/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything
// under /cases requires the bearer credential checked by authMW.
func RegisterRoutes(app *fiber.App, db *sql.DB, rec service.RecorderService, journal service.JournalService, authMW fiber.Handler) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	cases := app.Group("/cases", authMW)
	cases.Post("/:case_id/documents/upload", UploadDocument(rec))
	cases.Get("/:case_id/documents", ListCaseDocuments(rec))
	cases.Get("/:case_id/documents/:id/content", DownloadDocument(rec))
	cases.Post("/:case_id/documents/:id/rejournal", RejournalDocument(rec))
	cases.Get("/:case_id/journal", ListCaseJournal(journal))
	cases.Get("/:case_id/journal/verify", VerifyCaseJournal(journal))
}

// HealthCheck reports readiness: checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadDocument handles multipart uploads (field name: file) into a case.
func UploadDocument(rec service.RecorderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caseID := c.Params("case_id")

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		mime := fh.Header.Get("Content-Type")
		doc, _, err := rec.RecordDocumentUpload(c.UserContext(), caseID, actorFromCtx(c), fh.Filename, mime, data)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListCaseDocuments returns a case's documents ordered by import time.
func ListCaseDocuments(rec service.RecorderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := rec.ListDocuments(c.UserContext(), c.Params("case_id"))
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// DownloadDocument streams a document's stored bytes.
func DownloadDocument(rec service.RecorderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, data, err := rec.DocumentContent(c.UserContext(), c.Params("case_id"), c.Params("id"))
		if err != nil {
			return translateServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, doc.Mime)
		return c.Status(fiber.StatusOK).Send(data)
	}
}

// RejournalDocument appends the document-uploaded entry for an already stored
// document. Recovery path after a partial record.
func RejournalDocument(rec service.RecorderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, err := rec.Rejournal(c.UserContext(), c.Params("case_id"), actorFromCtx(c), c.Params("id"))
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// ListCaseJournal returns a case's journal in append order.
func ListCaseJournal(journal service.JournalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := journal.ListByCase(c.UserContext(), c.Params("case_id"))
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(entries)
	}
}

// VerifyCaseJournal checks every payload hash and chain link of a case's
// journal and returns the report.
func VerifyCaseJournal(journal service.JournalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := journal.VerifyChain(c.UserContext(), c.Params("case_id"))
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(report)
	}
}

// translateServiceError maps service errors onto the error envelope.
func translateServiceError(c *fiber.Ctx, err error) error {
	var partial *service.PartialRecordError
	switch {
	case errors.As(err, &partial):
		return writeErrorDetails(c, fiber.StatusInternalServerError, "PARTIAL_RECORD",
			"document recorded but not journaled; retry via rejournal",
			map[string]string{"document_id": partial.DocumentID})
	case errors.Is(err, service.ErrInvalidCase):
		return writeError(c, fiber.StatusNotFound, "CASE_NOT_FOUND", "case not found")
	case errors.Is(err, service.ErrDocumentNotFound):
		return writeError(c, fiber.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrContentMismatch):
		return writeError(c, fiber.StatusInternalServerError, "INTEGRITY_MISMATCH", "stored content failed integrity check")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
