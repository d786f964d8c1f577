package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"

	"imagevault/internal/model"
)

// UserRepository defines data access for user records using SQL queries only.
// No business logic here — strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user row and returns the stored record.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by its ID. Missing rows surface as sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns the first user matching the email.
	// Missing rows surface as sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// SetToken overwrites the user's session token.
	// Returns sql.ErrNoRows if the user does not exist.
	SetToken(ctx context.Context, id, token string) error

	// PushDocument appends a document id to the user's documents list.
	// Returns sql.ErrNoRows if the user does not exist.
	PushDocument(ctx context.Context, userID, documentID string) error

	// PullDocument removes a document id from the user's documents list.
	// Returns sql.ErrNoRows if the user does not exist.
	PullDocument(ctx context.Context, userID, documentID string) error
}

// DocumentRepository defines data access for document records.
type DocumentRepository interface {
	// Create inserts a new document row and returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// DeleteReturning removes a document by ID and returns the deleted row,
	// so callers can recover the media object id after the row is gone.
	// Returns sql.ErrNoRows if the row did not exist.
	DeleteReturning(ctx context.Context, id string) (*model.Document, error)
}
