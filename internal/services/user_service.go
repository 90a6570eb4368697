package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/isdelr/social-feed-be/internal/apperr"
	"github.com/isdelr/social-feed-be/internal/auth"
	"github.com/isdelr/social-feed-be/internal/models"
	"github.com/isdelr/social-feed-be/internal/validate"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// UserServiceProvider defines the interface for user resolver operations.
// Operations that require an authenticated caller read the identity from
// the context and fail with a 401 domain error when it is absent.
type UserServiceProvider interface {
	Create(ctx context.Context, name, email, password string) (models.PublicUser, error)
	Login(ctx context.Context, email, password string) (models.AuthData, error)
	Current(ctx context.Context) (models.PublicUser, error)
	UpdateStatus(ctx context.Context, status string) (bool, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db     *sql.DB
	tokens *auth.Manager
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, tokens *auth.Manager) *UserService {
	return &UserService{db: db, tokens: tokens}
}

// Create registers a new account. The password is hashed before it is
// persisted; the plaintext is never stored and the hash never returned.
func (s *UserService) Create(ctx context.Context, name, email, password string) (models.PublicUser, error) {
	if fieldErrs := validate.Signup(email, password); len(fieldErrs) > 0 {
		return models.PublicUser{}, apperr.Invalid("invalid input", fieldErrs)
	}

	// The unique index on email is authoritative; this check just turns
	// the common case into a clearer error before hashing work is done.
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return models.PublicUser{}, apperr.Conflict("user already exists")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.PublicUser{}, fmt.Errorf("failed to check for existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Status:       models.DefaultStatus,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, name, email, password_hash, status, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Status, formatTime(now), formatTime(now))
	if err != nil {
		// Lost the race against a concurrent registration.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.PublicUser{}, apperr.Conflict("user already exists")
		}
		return models.PublicUser{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user.Public(), nil
}

// Login verifies the credentials and issues a signed token embedding the
// user's id and email.
func (s *UserService) Login(ctx context.Context, email, password string) (models.AuthData, error) {
	user, err := s.byEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AuthData{}, apperr.Unauthenticated("no user with that email exists")
		}
		return models.AuthData{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.AuthData{}, apperr.Unauthenticated("wrong password")
	}

	token, err := s.tokens.IssueToken(user.ID, user.Email)
	if err != nil {
		return models.AuthData{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return models.AuthData{UserID: user.ID, Token: token}, nil
}

// Current returns the authenticated caller's account.
func (s *UserService) Current(ctx context.Context) (models.PublicUser, error) {
	userID, ok := auth.Identity(ctx)
	if !ok {
		return models.PublicUser{}, apperr.Unauthenticated("not authenticated")
	}

	user, err := s.byID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PublicUser{}, apperr.NotFound("user not found")
		}
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateStatus overwrites the caller's status line.
func (s *UserService) UpdateStatus(ctx context.Context, status string) (bool, error) {
	userID, ok := auth.Identity(ctx)
	if !ok {
		return false, apperr.Unauthenticated("not authenticated")
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET status = ?, updated_at = ? WHERE id = ?",
		status, formatTime(time.Now().UTC()), userID)
	if err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, apperr.NotFound("user not found")
	}
	return true, nil
}

// byID retrieves a stored user record, password hash included. The raw
// record never leaves this package.
func (s *UserService) byID(ctx context.Context, id string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, status, created_at, updated_at FROM users WHERE id = ?", id))
}

func (s *UserService) byEmail(ctx context.Context, email string) (models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, status, created_at, updated_at FROM users WHERE email = ?", email))
}

func (s *UserService) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var createdAt, updatedAt string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Status, &createdAt, &updatedAt)
	if err != nil {
		return models.User{}, err
	}
	user.CreatedAt = parseTime(createdAt)
	user.UpdatedAt = parseTime(updatedAt)
	return user, nil
}
