package accounts

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"camino_routes/internal/models"
)

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Migrate() error {
	return p.db.AutoMigrate(&models.Editor{})
}

func (p *Postgres) Create(ctx context.Context, e Editor) (Editor, error) {
	rec := models.Editor{Name: e.Name, Email: e.Email, Password: e.PasswordHash, Role: e.Role}
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return Editor{}, ErrEmailTaken
		}
		return Editor{}, fmt.Errorf("create editor: %w", err)
	}
	return fromRecord(rec), nil
}

func (p *Postgres) FindByEmail(ctx context.Context, email string) (Editor, error) {
	var rec models.Editor
	if err := p.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Editor{}, ErrEditorNotFound
		}
		return Editor{}, fmt.Errorf("find editor: %w", err)
	}
	return fromRecord(rec), nil
}

// isDuplicate matches gorm's translated error and an untranslated pgx error
// from a session opened without TranslateError.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func fromRecord(rec models.Editor) Editor {
	return Editor{
		ID:           strconv.FormatUint(uint64(rec.ID), 10),
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.Password,
		Role:         rec.Role,
		CreatedAt:    rec.CreatedAt,
	}
}
