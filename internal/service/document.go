package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"docvault/internal/ingest"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrReaderNil = errors.New("reader is nil")
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"documents"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents. It is the
// sole owner of the blob/metadata consistency rules:
//
//   - Upload writes the blob first and the record second; if the record
//     insert fails the blob is deleted best-effort, so a crash window can
//     only leave an unreferenced blob (a silent leak), never a record
//     pointing at nothing.
//   - Delete looks up the record, removes the blob, then drops the record;
//     a crash between the two leaves a record whose blob is gone, which
//     Download detects and reports as not found.
//
// No transaction spans the two stores; the ordering above is the only
// consistency mechanism.
type DocumentService interface {
	// Upload validates the declared content type and size, stores the
	// content under a fresh storage key, and records the metadata.
	// Validation failures (ingest.ErrInvalidType, ingest.ErrSizeLimitExceeded)
	// happen before any write.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// List returns documents newest-first using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Download returns the record and a reader over the blob content.
	// A record whose blob is missing yields ErrNotFound.
	Download(ctx context.Context, id int64) (*model.Document, io.ReadCloser, error)

	// Delete removes a document's blob and record. Returns ErrNotFound
	// when no record exists, including for a repeated delete.
	Delete(ctx context.Context, id int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	validator ingest.Validator
	namer     ingest.Namer
	store     storage.Storage
	repo      repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(validator ingest.Validator, namer ingest.Namer, store storage.Storage, repo repository.DocumentRepository) DocumentService {
	return &documentService{validator: validator, namer: namer, store: store, repo: repo}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := s.validator.Validate(contentType, size); err != nil {
		return nil, err
	}

	key := s.namer.NameFor(originalFilename)

	obj, err := s.store.Put(ctx, key, r, storage.PutOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	doc := &model.Document{
		Filename:   originalFilename,
		StorageKey: key,
		Size:       obj.Size,
		CreatedAt:  time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Compensate: remove the just-written blob so the failure leaves no
		// orphan. Its own failure is logged, not surfaced, to keep the
		// original error visible to the caller.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logJSON(map[string]any{
				"component":   "document_service",
				"event":       "upload_compensation_failed",
				"status":      "error",
				"storage_key": key,
				"error":       delErr.Error(),
			})
		}
		return nil, fmt.Errorf("insert metadata: %w", err)
	}
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Download returns the record and a reader over its blob.
func (s *documentService) Download(ctx context.Context, id int64) (*model.Document, io.ReadCloser, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	ok, err := s.store.Exists(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("check blob: %w", err)
	}
	if !ok {
		// Record without blob: the crash window of Delete, or an external
		// removal. Reported as not found to the caller; logged so the
		// inconsistency is not silently hidden.
		logJSON(map[string]any{
			"component":   "document_service",
			"event":       "dangling_document_record",
			"status":      "error",
			"document_id": doc.ID,
			"storage_key": doc.StorageKey,
		})
		return nil, nil, ErrNotFound
	}

	rc, _, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Raced with a concurrent delete between Exists and Get.
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}
	return doc, rc, nil
}

// Delete removes the blob, then the record. The blob delete is always
// attempted and its outcome never gates the record delete.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		logJSON(map[string]any{
			"component":   "document_service",
			"event":       "blob_delete_failed",
			"status":      "error",
			"document_id": doc.ID,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Raced with a concurrent delete of the same id.
			return ErrNotFound
		}
		return err
	}
	return nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "error"
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal service log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
