package account

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inventory-system/config"
	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/party"
	"inventory-system/internal/testutil"
	"inventory-system/internal/utils"
)

const strongPassword = "Str0ng!Pass"

func newService(t *testing.T) (*Service, *repository.Store, *utils.TokenIssuer, map[string]models.UserType) {
	t.Helper()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	issuer, err := utils.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		Issuer:    "inventory-system",
		Audience:  "inventory-clients",
		TokenTTL:  168 * time.Hour,
	})
	require.NoError(t, err)
	svc := NewService(store, &utils.BcryptHasher{Cost: bcrypt.MinCost}, issuer)
	return svc, store, issuer, types
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, issuer, types := newService(t)

	reg, err := svc.Register(ctx, RegisterInput{
		FullName:        "Jane Doe",
		Username:        "jane",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		UserTypeID:      types[models.RoleAdmin].ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, reg.UserTypeName)

	res, err := svc.Login(ctx, LoginInput{Username: "jane", Password: strongPassword})
	require.NoError(t, err)
	require.Equal(t, reg.UserID, res.UserID)
	require.WithinDuration(t, time.Now().Add(168*time.Hour), res.Expiration, time.Minute)

	claims, err := issuer.ParseToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, "jane", claims.Name)
	require.Equal(t, models.RoleAdmin, claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, reg.UserID, id)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc, store, _, types := newService(t)

	hasher := &utils.BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := hasher.Hash(strongPassword)
	require.NoError(t, err)
	user := models.User{FullName: "Jo", Username: "jo", PasswordHash: hash, UserTypeID: types[models.RoleCustomer].ID}
	require.NoError(t, store.Users.Add(ctx, &user))

	_, err = svc.Login(ctx, LoginInput{Username: "jo", Password: "wrong"})
	require.True(t, apperr.Is(err, apperr.KindAuthentication))

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: strongPassword})
	require.True(t, apperr.Is(err, apperr.KindAuthentication))

	_, err = svc.Login(ctx, LoginInput{Username: "", Password: ""})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterRejectsDuplicatesAndUnknownType(t *testing.T) {
	ctx := context.Background()
	svc, _, _, types := newService(t)

	in := RegisterInput{
		FullName:        "Jane Doe",
		Username:        "jane",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		UserTypeID:      types[models.RoleCustomer].ID,
	}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	in.Username = "other"
	in.UserTypeID = uuid.New()
	_, err = svc.Register(ctx, in)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, types := newService(t)

	base := RegisterInput{
		FullName:        "Jane Doe",
		Username:        "jane",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		UserTypeID:      types[models.RoleCustomer].ID,
	}
	bad := map[string]func(*RegisterInput){
		"short name":       func(in *RegisterInput) { in.FullName = "J" },
		"bad username":     func(in *RegisterInput) { in.Username = "jane doe" },
		"weak password":    func(in *RegisterInput) { in.Password, in.ConfirmPassword = "password1", "password1" },
		"mismatch":         func(in *RegisterInput) { in.ConfirmPassword = "Other!Pass1" },
		"missing usertype": func(in *RegisterInput) { in.UserTypeID = uuid.Nil },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := svc.Register(ctx, in)
			require.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestRegisterCustomerCreatesProfile(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newService(t)

	res, err := svc.RegisterCustomer(ctx, PartyRegisterInput{
		FullName:        "Acme Buyer",
		Username:        "acme",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		Profile:         party.Input{Name: "Acme", Address: "1 Main St", Contact: "555-123-4567"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.CustomerID)
	require.Nil(t, res.SupplierID)
	require.Equal(t, models.RoleCustomer, res.UserTypeName)

	customer, err := store.Customers.GetByID(ctx, *res.CustomerID)
	require.NoError(t, err)
	require.Equal(t, res.UserID, customer.UserID)
}

func TestRegisterSupplierRollsBackOnBadProfile(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newService(t)

	_, err := svc.RegisterSupplier(ctx, PartyRegisterInput{
		FullName:        "Globex Seller",
		Username:        "globex",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		Profile:         party.Input{Name: "Globex", Address: "9 Dock Rd", Contact: "not a phone"},
	})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	exists, err := store.Users.Exists(ctx, repository.Where("username = ?", "globex"))
	require.NoError(t, err)
	require.False(t, exists)

	res, err := svc.RegisterSupplier(ctx, PartyRegisterInput{
		FullName:        "Globex Seller",
		Username:        "globex",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		Profile:         party.Input{Name: "Globex", Address: "9 Dock Rd", Contact: "5559876543"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.SupplierID)
}

func TestProfileAndChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _, types := newService(t)

	reg, err := svc.Register(ctx, RegisterInput{
		FullName:        "Jane Doe",
		Username:        "jane",
		Password:        strongPassword,
		ConfirmPassword: strongPassword,
		UserTypeID:      types[models.RoleSupplier].ID,
	})
	require.NoError(t, err)

	profile, err := svc.GetUserProfile(ctx, reg.UserID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", profile.FullName)
	require.Equal(t, models.RoleSupplier, profile.UserTypeName)

	_, err = svc.GetUserProfile(ctx, uuid.New())
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	err = svc.ChangePassword(ctx, reg.UserID, ChangePasswordInput{
		CurrentPassword: "Wrong!Pass1",
		NewPassword:     "N3w!Password",
		ConfirmPassword: "N3w!Password",
	})
	require.True(t, apperr.Is(err, apperr.KindAuthentication))

	err = svc.ChangePassword(ctx, reg.UserID, ChangePasswordInput{
		CurrentPassword: strongPassword,
		NewPassword:     "N3w!Password",
		ConfirmPassword: "N3w!Password",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "jane", Password: strongPassword})
	require.True(t, apperr.Is(err, apperr.KindAuthentication))
	_, err = svc.Login(ctx, LoginInput{Username: "jane", Password: "N3w!Password"})
	require.NoError(t, err)
}
