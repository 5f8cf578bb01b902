// Package testutil opens throwaway sqlite databases with the production schema.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inventory-system/internal/database"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func NewStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(NewDB(t))
}

// SeedUserTypes creates the three built-in roles and returns them by name.
func SeedUserTypes(t *testing.T, store *repository.Store) map[string]models.UserType {
	t.Helper()
	out := make(map[string]models.UserType)
	for _, name := range []string{models.RoleAdmin, models.RoleCustomer, models.RoleSupplier} {
		ut := models.UserType{Name: name}
		require.NoError(t, store.UserTypes.Add(context.Background(), &ut))
		out[name] = ut
	}
	return out
}

func CreateUser(t *testing.T, store *repository.Store, userType models.UserType, username string) models.User {
	t.Helper()
	u := models.User{
		FullName:     username + " full",
		Username:     username,
		PasswordHash: "hash",
		UserTypeID:   userType.ID,
	}
	require.NoError(t, store.Users.Add(context.Background(), &u))
	return u
}
