// Package lookup resolves related rows by id in batches, so list views issue
// one query per related table instead of one per row.
package lookup

import (
	"context"

	"github.com/google/uuid"

	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/views"
)

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func Categories(ctx context.Context, store *repository.Store, ids []uuid.UUID) (map[uuid.UUID]models.Category, error) {
	out := make(map[uuid.UUID]models.Category)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := store.Categories.FindAll(ctx, repository.Where("id IN ?", ids))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load categories")
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

// ItemViews resolves items together with their categories.
func ItemViews(ctx context.Context, store *repository.Store, ids []uuid.UUID) (map[uuid.UUID]views.ItemView, error) {
	out := make(map[uuid.UUID]views.ItemView)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	items, err := store.Items.FindAll(ctx, repository.Where("id IN ?", ids))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load items")
	}
	return ItemViewsFor(ctx, store, items)
}

func ItemViewsFor(ctx context.Context, store *repository.Store, items []models.Item) (map[uuid.UUID]views.ItemView, error) {
	categoryIDs := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		categoryIDs = append(categoryIDs, it.CategoryID)
	}
	categories, err := Categories(ctx, store, categoryIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]views.ItemView, len(items))
	for _, it := range items {
		var cat *models.Category
		if c, ok := categories[it.CategoryID]; ok {
			cat = &c
		}
		out[it.ID] = views.Item(it, cat)
	}
	return out, nil
}

func UserTypes(ctx context.Context, store *repository.Store, ids []uuid.UUID) (map[uuid.UUID]models.UserType, error) {
	out := make(map[uuid.UUID]models.UserType)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := store.UserTypes.FindAll(ctx, repository.Where("id IN ?", ids))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load user types")
	}
	for _, ut := range rows {
		out[ut.ID] = ut
	}
	return out, nil
}

// Profiles resolves users and their role names.
func Profiles(ctx context.Context, store *repository.Store, ids []uuid.UUID) (map[uuid.UUID]*views.UserProfile, error) {
	out := make(map[uuid.UUID]*views.UserProfile)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	users, err := store.Users.FindAll(ctx, repository.Where("id IN ?", ids))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load users")
	}

	typeIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		typeIDs = append(typeIDs, u.UserTypeID)
	}
	types, err := UserTypes(ctx, store, typeIDs)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		var ut *models.UserType
		if t, ok := types[u.UserTypeID]; ok {
			ut = &t
		}
		out[u.ID] = views.Profile(u, ut)
	}
	return out, nil
}

// Role returns the role name of a user.
func Role(ctx context.Context, store *repository.Store, user models.User) (string, error) {
	ut, err := store.UserTypes.GetByID(ctx, user.UserTypeID)
	if err != nil {
		return "", repository.AsAppError(err, "User type", user.UserTypeID)
	}
	return ut.Name, nil
}
