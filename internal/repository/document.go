package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for document records using SQL
// queries only. No business logic here — strictly persistence operations.
//
// Absent rows are signaled with sql.ErrNoRows so the service layer can map
// them to its own not-found error.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row,
	// including the database-assigned id and created_at.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns a page of documents ordered by created_at descending
	// (id descending breaks ties), plus the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID. Returns sql.ErrNoRows when no row
	// matched, so callers can tell a repeat delete from a successful one.
	Delete(ctx context.Context, id int64) error
}
