package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"imagevault/internal/model"
	"imagevault/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// The documents column is JSONB; appends and removals map onto the jsonb
// || and - operators, mirroring list push/pull update semantics.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, first_name, last_name, email, password, token, role, documents, created_at, updated_at`

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	docs, err := json.Marshal(u.Documents)
	if err != nil {
		return nil, fmt.Errorf("marshal documents: %w", err)
	}

	const q = `
		INSERT INTO users (id, first_name, last_name, email, password, token, role, documents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Password,
		u.Token,
		u.Role,
		docs,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return scanUser(row)
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches the first user matching the email.
// There is no unique index on email, so ties resolve by insertion order.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY created_at LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// SetToken overwrites the user's session token.
func (r *UserPostgres) SetToken(ctx context.Context, id, token string) error {
	const q = `UPDATE users SET token = $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, q, id, token)
}

// PushDocument appends a document id to the user's documents list.
func (r *UserPostgres) PushDocument(ctx context.Context, userID, documentID string) error {
	const q = `UPDATE users SET documents = documents || to_jsonb($2::text), updated_at = now() WHERE id = $1`
	return r.execOne(ctx, q, userID, documentID)
}

// PullDocument removes a document id from the user's documents list.
func (r *UserPostgres) PullDocument(ctx context.Context, userID, documentID string) error {
	const q = `UPDATE users SET documents = documents - $2, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, q, userID, documentID)
}

// execOne runs an UPDATE expected to touch exactly one row and maps a
// zero-row result to sql.ErrNoRows.
func (r *UserPostgres) execOne(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u    model.User
		docs []byte
	)
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password,
		&u.Token,
		&u.Role,
		&docs,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docs, &u.Documents); err != nil {
		return nil, fmt.Errorf("unmarshal documents: %w", err)
	}
	return &u, nil
}
