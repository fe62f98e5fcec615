// Package gormstore implementa el Record Store sobre una base SQLite embebida usando gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
)

var (
	_ repository.UserRepository   = (*UserRepo)(nil)
	_ repository.ClientRepository = (*ClientRepo)(nil)
	_ repository.ReportRepository = (*ReportRepo)(nil)
)

// Open abre (o crea) la base en path y migra las tablas. path puede ser un DSN
// "file:...?mode=memory" para pruebas.
func Open(path string) (*repository.Backend, error) {
	if dir := filepath.Dir(path); dir != "." && !isMemory(path) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio sqlite: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	b := NewBackend(db)
	b.Close = func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return b, nil
}

// AutoMigrate crea o actualiza las tablas a partir de los modelos.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserModel{}, &ClientModel{}, &ReportModel{}); err != nil {
		return fmt.Errorf("migrar sqlite: %w", err)
	}
	return nil
}

// NewBackend arma los repositorios sobre una conexión existente.
func NewBackend(db *gorm.DB) *repository.Backend {
	return &repository.Backend{
		Name:    "sqlite",
		Users:   &UserRepo{db: db},
		Clients: &ClientRepo{db: db},
		Reports: &ReportRepo{db: db},
	}
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file:")
}

// UserRepo usuarios sobre gorm.
type UserRepo struct {
	db *gorm.DB
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var rows []UserModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, wrap("users.List", err)
	}
	out := make([]*entity.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.entity())
	}
	return out, nil
}

func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var m UserModel
	err := r.db.WithContext(ctx).Where("username = ?", identifier).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("users.GetByIdentifier", err)
	}
	return m.entity(), nil
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	m := UserModel{ID: u.ID, Username: u.Identifier, Password: u.Secret, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
	err := r.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateIdentifier
	}
	return wrap("users.Create", err)
}

func (r *UserRepo) UpdateSecret(ctx context.Context, identifier, secret string) error {
	res := r.db.WithContext(ctx).Model(&UserModel{}).Where("username = ?", identifier).Update("password", secret)
	if res.Error != nil {
		return wrap("users.UpdateSecret", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClientRepo clientes sobre gorm.
type ClientRepo struct {
	db *gorm.DB
}

func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	var rows []ClientModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, wrap("clients.List", err)
	}
	out := make([]*entity.Client, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.entity())
	}
	return out, nil
}

func (r *ClientRepo) GetByName(ctx context.Context, name string) (*entity.Client, error) {
	return r.first(ctx, "clients.GetByName", "name = ?", name)
}

func (r *ClientRepo) GetByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	return r.first(ctx, "clients.GetByPhone", "phone = ?", phone)
}

func (r *ClientRepo) first(ctx context.Context, op, where, arg string) (*entity.Client, error) {
	var m ClientModel
	err := r.db.WithContext(ctx).Where(where, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(op, err)
	}
	return m.entity(), nil
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	m := ClientModel{ID: c.ID, Name: c.Name, Contact: c.Contact, Phone: c.Phone, Type: c.Type, CreatedAt: c.CreatedAt}
	return wrap("clients.Create", r.db.WithContext(ctx).Create(&m).Error)
}

// ReportRepo reportes sobre gorm.
type ReportRepo struct {
	db *gorm.DB
}

func (r *ReportRepo) List(ctx context.Context) ([]*entity.Report, error) {
	var rows []ReportModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, wrap("reports.List", err)
	}
	out := make([]*entity.Report, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.entity())
	}
	return out, nil
}

func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	m := toReportModel(rep)
	return wrap("reports.Create", r.db.WithContext(ctx).Create(&m).Error)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return domain.Unavailable(op, err)
}
