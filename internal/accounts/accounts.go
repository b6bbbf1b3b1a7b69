// Package accounts stores the editors allowed to write routes.
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken      = errors.New("email already in use")
	ErrEditorNotFound  = errors.New("editor not found")
	ErrInvalidPassword = errors.New("incorrect password")
	ErrInvalidRole     = errors.New("invalid role")
)

// Roles.
const (
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// Editor is an account. PasswordHash is a bcrypt hash.
type Editor struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists editors. Emails are unique.
type Store interface {
	Create(ctx context.Context, e Editor) (Editor, error)
	FindByEmail(ctx context.Context, email string) (Editor, error)
}

// NormalizeRole lowercases role and defaults it to RoleEditor.
func NormalizeRole(role string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = RoleEditor
	}
	switch role {
	case RoleEditor, RoleAdmin:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register hashes the password and creates the editor.
func Register(ctx context.Context, s Store, name, email, password, role string) (Editor, error) {
	role, err := NormalizeRole(role)
	if err != nil {
		return Editor{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Editor{}, err
	}
	return s.Create(ctx, Editor{
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
	})
}

// Authenticate checks credentials and returns the editor.
func Authenticate(ctx context.Context, s Store, email, password string) (Editor, error) {
	e, err := s.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Editor{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return Editor{}, ErrInvalidPassword
	}
	return e, nil
}
