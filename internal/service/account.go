package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"imagevault/internal/auth"
	"imagevault/internal/model"
	"imagevault/internal/repository"
)

const bcryptCost = 10

var (
	ErrFieldsRequired   = errors.New("all fields are required")
	ErrPasswordMismatch = errors.New("password and confirm password do not match")
	ErrEmailTaken       = errors.New("user already exists")
	ErrUserNotFound     = errors.New("user is not registered")
	ErrWrongPassword    = errors.New("password is incorrect")
)

// SignupInput carries the fields required to register an account.
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AccountService defines the registration and authentication use cases.
type AccountService interface {
	// Signup validates the input, enforces email uniqueness via a point
	// read (not a store constraint), hashes the password, and creates the
	// user. The returned user carries the hash; the HTTP layer never
	// serializes it.
	Signup(ctx context.Context, in SignupInput) (*model.User, error)

	// Login verifies credentials, issues a signed session token, persists
	// it onto the user row (overwriting any prior token), and returns the
	// token alongside the user with the password stripped.
	Login(ctx context.Context, email, password string) (string, *model.User, error)

	// Profile returns the user for an authenticated id with the password
	// stripped.
	Profile(ctx context.Context, userID string) (*model.User, error)
}

// accountService is a concrete implementation of AccountService.
type accountService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAccountService constructs a new AccountService.
func NewAccountService(users repository.UserRepository, tokens *auth.TokenService) AccountService {
	return &accountService{users: users, tokens: tokens}
}

func (s *accountService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, ErrFieldsRequired
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	// Check-then-create: concurrent signups with the same email can both
	// pass this read since there is no unique index backing it.
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  string(hashed),
		Role:      model.RoleUser,
		Documents: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrFieldsRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrWrongPassword
	}

	token, err := s.tokens.Generate(user.Email, user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	// Overwrites any prior token: a single logical session per user,
	// though old tokens stay valid until expiry (no revocation list).
	if err := s.users.SetToken(ctx, user.ID, token); err != nil {
		return "", nil, fmt.Errorf("persist token: %w", err)
	}

	user.Token = token
	user.Password = ""
	return token, user, nil
}

func (s *accountService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}
