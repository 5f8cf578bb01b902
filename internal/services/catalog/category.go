package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/views"
)

type CategoryInput struct {
	Name        string
	Description string
}

func (in *CategoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if l := len(in.Name); l < 2 || l > 100 {
		return apperr.ValidationField("name", "Name must be between 2 and 100 characters")
	}
	if len(in.Description) > 500 {
		return apperr.ValidationField("description", "Description cannot exceed 500 characters")
	}
	return nil
}

type CategoryService struct {
	store *repository.Store
	opts  options
}

func NewCategoryService(store *repository.Store, opts ...Option) *CategoryService {
	return &CategoryService{store: store, opts: newOptions(opts)}
}

func (s *CategoryService) GetAll(ctx context.Context) ([]views.CategoryView, error) {
	var out []views.CategoryView
	if s.opts.cache.Get(ctx, CategoriesCacheKey, &out) {
		return out, nil
	}

	rows, err := s.store.Categories.FindAll(ctx, repository.OrderBy("name ASC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list categories")
	}
	out = make([]views.CategoryView, 0, len(rows))
	for _, c := range rows {
		out = append(out, views.Category(c))
	}
	s.opts.cache.Set(ctx, CategoriesCacheKey, out, listTTL)
	return out, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*views.CategoryDetail, error) {
	category, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Category", id)
	}

	items, err := s.store.Items.FindAll(ctx,
		repository.Where("category_id = ?", id),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load category items")
	}

	detail := &views.CategoryDetail{
		CategoryView: views.Category(*category),
		CreatedDate:  category.CreatedAt,
		ModifiedDate: category.UpdatedAt,
		Items:        make([]views.ItemView, 0, len(items)),
	}
	for _, it := range items {
		detail.Items = append(detail.Items, views.Item(it, category))
	}
	return detail, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*views.CategoryView, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	category := models.Category{Name: in.Name, Description: in.Description}
	if err := s.store.Categories.Add(ctx, &category); err != nil {
		return nil, repository.Unexpected(err, "failed to create category")
	}
	s.opts.invalidate(ctx)

	v := views.Category(category)
	return &v, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*views.CategoryView, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	category, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Category", id)
	}

	category.Name = in.Name
	category.Description = in.Description
	if err := s.store.Categories.Update(ctx, category); err != nil {
		return nil, repository.Unexpected(err, "failed to update category")
	}
	s.opts.invalidate(ctx)

	v := views.Category(*category)
	return &v, nil
}

// Delete removes a category. It returns false when the category does not
// exist and a conflict while items still reference it.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	category, err := s.store.Categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load category")
	}

	inUse, err := s.store.Items.Exists(ctx, repository.Where("category_id = ?", id))
	if err != nil {
		return false, repository.Unexpected(err, "failed to check category items")
	}
	if inUse {
		return false, apperr.Conflict("Category %q still has items and cannot be deleted", category.Name)
	}

	if err := s.store.Categories.Delete(ctx, category); err != nil {
		return false, repository.Unexpected(err, "failed to delete category")
	}
	s.opts.invalidate(ctx)
	return true, nil
}

func (s *CategoryService) Search(ctx context.Context, term string) ([]views.CategoryView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []views.CategoryView{}, nil
	}

	rows, err := s.store.Categories.FindAll(ctx,
		repository.ContainsFold(term, "name"),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to search categories")
	}
	out := make([]views.CategoryView, 0, len(rows))
	for _, c := range rows {
		out = append(out, views.Category(c))
	}
	return out, nil
}
