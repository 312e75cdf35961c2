package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		Filename:   "report.pdf",
		StorageKey: "documents/report-abc.pdf",
		Size:       1048576,
		CreatedAt:  now,
	}

	rows := sqlmock.NewRows([]string{"id", "filename", "storage_key", "size_bytes", "created_at"}).
		AddRow(int64(1), doc.Filename, doc.StorageKey, doc.Size, doc.CreatedAt)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.Filename, doc.StorageKey, doc.Size, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, doc.StorageKey, result.StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "filename", "storage_key", "size_bytes", "created_at"}).
			AddRow(int64(42), "report.pdf", "documents/report-abc.pdf", int64(123), now)

		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs(int64(42)).
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, 42)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), doc.ID)
		assert.Equal(t, "report.pdf", doc.Filename)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 99)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM documents`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	listRows := sqlmock.NewRows([]string{"id", "filename", "storage_key", "size_bytes", "created_at"}).
		AddRow(int64(2), "b.pdf", "documents/b-x.pdf", int64(20), now).
		AddRow(int64(1), "a.pdf", "documents/a-y.pdf", int64(10), now.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY created_at DESC, id DESC").
		WithArgs(10, 0).
		WillReturnRows(listRows)

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(2), res.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row matched", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents").
			WithArgs(int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 2), sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
