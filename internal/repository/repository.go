// Package repository is the storage abstraction every service consumes. Each
// entity gets the same generic gorm-backed repository; predicates are gorm
// scopes.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database"
)

var ErrNotFound = errors.New("record not found")

type Scope = func(*gorm.DB) *gorm.DB

type Repository[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	FindAll(ctx context.Context, scopes ...Scope) ([]T, error)
	FindSingle(ctx context.Context, scopes ...Scope) (*T, error)
	Count(ctx context.Context, scopes ...Scope) (int64, error)
	Exists(ctx context.Context, scopes ...Scope) (bool, error)
}

type GormRepository[T any] struct {
	db   *gorm.DB
	name string
}

func NewGormRepository[T any](db *gorm.DB, name string) *GormRepository[T] {
	return &GormRepository[T]{db: db, name: name}
}

func (r *GormRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, errors.Wrapf(err, "list %s", r.name)
	}
	return out, nil
}

func (r *GormRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %s %s", r.name, id)
	}
	return &entity, nil
}

func (r *GormRepository[T]) Add(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return r.writeError("create", err)
	}
	return nil
}

func (r *GormRepository[T]) Update(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		return r.writeError("update", err)
	}
	return nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return r.writeError("delete", err)
	}
	return nil
}

func (r *GormRepository[T]) FindAll(ctx context.Context, scopes ...Scope) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Scopes(scopes...).Find(&out).Error; err != nil {
		return nil, errors.Wrapf(err, "find %s", r.name)
	}
	return out, nil
}

func (r *GormRepository[T]) FindSingle(ctx context.Context, scopes ...Scope) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Scopes(scopes...).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "find %s", r.name)
	}
	return &entity, nil
}

func (r *GormRepository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var count int64
	var model T
	if err := r.db.WithContext(ctx).Model(&model).Scopes(scopes...).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s", r.name)
	}
	return count, nil
}

func (r *GormRepository[T]) Exists(ctx context.Context, scopes ...Scope) (bool, error) {
	count, err := r.Count(ctx, scopes...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepository[T]) writeError(op string, err error) error {
	switch database.ClassifyError(err) {
	case database.ErrorClassUniqueViolation:
		return apperr.Conflict("%s already exists", r.name)
	case database.ErrorClassForeignKeyViolation:
		return apperr.Conflict("%s is referenced by other records", r.name)
	}
	return errors.Wrapf(err, "%s %s", op, r.name)
}
