package postgres

import (
	"context"
	"database/sql"

	"imagevault/internal/model"
	"imagevault/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, name, object_id, url, created_at`

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, name, object_id, url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Name,
		doc.ObjectID,
		doc.URL,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// DeleteReturning removes a document by ID and returns the deleted row.
// A missing row surfaces as sql.ErrNoRows from the scan.
func (r *DocumentPostgres) DeleteReturning(ctx context.Context, id string) (*model.Document, error) {
	const q = `DELETE FROM documents WHERE id = $1 RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

func scanDocument(row *sql.Row) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.ObjectID,
		&d.URL,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
