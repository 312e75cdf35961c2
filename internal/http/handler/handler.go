package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/ingest"
	"docvault/internal/model"
	"docvault/internal/service"
)

// pdfContentType is what downloads are served as; the service accepts
// exactly one content type so the adapter does not need to store it per row.
const pdfContentType = "application/pdf"

type documentResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Document *model.Document `json:"document"`
}

type listResponse struct {
	Success   bool             `json:"success"`
	Documents []model.Document `json:"documents"`
	Total     int              `json:"total"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthCheck reports readiness by pinging the database.
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

// UploadDocument accepts a multipart upload (field name: file) and returns
// the created record.
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			switch {
			case errors.Is(err, ingest.ErrInvalidType):
				return writeError(c, fiber.StatusBadRequest, "INVALID_TYPE", "only PDF files are allowed")
			case errors.Is(err, ingest.ErrSizeLimitExceeded):
				return writeError(c, fiber.StatusRequestEntityTooLarge, "SIZE_LIMIT_EXCEEDED", "file size exceeds the allowed limit")
			default:
				return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "error saving document")
			}
		}
		return c.Status(fiber.StatusOK).JSON(documentResponse{
			Success:  true,
			Message:  "Document uploaded successfully",
			Document: doc,
		})
	}
}

// ListDocuments returns stored documents, newest first.
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "database error")
		}
		return c.JSON(listResponse{Success: true, Documents: res.Items, Total: res.Total})
	}
}

// DownloadDocument streams a document's content with its original filename.
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}

		doc, rc, err := docSvc.Download(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "error reading document")
		}

		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		c.Set(fiber.HeaderContentType, pdfContentType)
		// SendStream closes rc once the body has been written.
		return c.SendStream(rc, int(doc.Size))
	}
}

// DeleteDocument removes a document's blob and metadata record.
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}

		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "error deleting document")
		}
		return c.Status(fiber.StatusOK).JSON(statusResponse{
			Success: true,
			Message: "Document deleted successfully",
		})
	}
}

// parseID parses the :id path segment. A non-numeric id can never name a
// row, so callers treat a parse failure the same as a missing document.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid document id %q", raw)
	}
	return id, nil
}
