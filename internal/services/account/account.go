// Package account handles sign-in, registration and password changes.
package account

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/lookup"
	"inventory-system/internal/services/party"
	"inventory-system/internal/services/views"
	"inventory-system/internal/utils"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

type tokenGenerator interface {
	GenerateToken(userID uuid.UUID, username, role string) (string, time.Time, error)
}

type LoginInput struct {
	Username string
	Password string
}

type RegisterInput struct {
	FullName        string
	Username        string
	Password        string
	ConfirmPassword string
	UserTypeID      uuid.UUID
}

// PartyRegisterInput registers a user together with its customer or supplier
// profile. The role is implied by the endpoint.
type PartyRegisterInput struct {
	FullName        string
	Username        string
	Password        string
	ConfirmPassword string
	Profile         party.Input
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type LoginResult struct {
	Token        string    `json:"token"`
	Expiration   time.Time `json:"expiration"`
	UserID       uuid.UUID `json:"userId"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	UserTypeID   uuid.UUID `json:"userTypeId"`
	UserTypeName string    `json:"userTypeName"`
}

type RegisterResult struct {
	UserID       uuid.UUID  `json:"userId"`
	UserTypeID   uuid.UUID  `json:"userTypeId"`
	UserTypeName string     `json:"userTypeName"`
	CustomerID   *uuid.UUID `json:"customerId,omitempty"`
	SupplierID   *uuid.UUID `json:"supplierId,omitempty"`
}

type Service struct {
	store  *repository.Store
	hasher utils.PasswordHasher
	tokens tokenGenerator
}

func NewService(store *repository.Store, hasher utils.PasswordHasher, tokens tokenGenerator) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens}
}

// Login verifies the credentials and issues a signed session token. Unknown
// users and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperr.Validation("Username and password are required")
	}

	user, err := s.store.Users.FindSingle(ctx, repository.Where("username = ?", username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Authentication("Invalid username or password")
	}
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load user")
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, apperr.Authentication("Invalid username or password")
	}

	role, err := lookup.Role(ctx, s.store, *user)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.GenerateToken(user.ID, user.Username, role)
	if err != nil {
		return nil, apperr.Unexpected("failed to issue token", err)
	}

	zap.L().Info("user signed in", zap.String("username", user.Username), zap.String("role", role))
	return &LoginResult{
		Token:        token,
		Expiration:   exp,
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		UserTypeID:   user.UserTypeID,
		UserTypeName: role,
	}, nil
}

// Register creates a user under the requested user type.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if err := validateCredentials(&in.FullName, &in.Username, in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}
	if in.UserTypeID == uuid.Nil {
		return nil, apperr.ValidationField("userTypeId", "User type is required")
	}

	var result *RegisterResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		userType, err := tx.UserTypes.GetByID(ctx, in.UserTypeID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ValidationField("userTypeId", "Invalid user type")
		}
		if err != nil {
			return repository.Unexpected(err, "failed to load user type")
		}

		user, err := s.createUser(ctx, tx, in.FullName, in.Username, in.Password, *userType)
		if err != nil {
			return err
		}
		result = &RegisterResult{UserID: user.ID, UserTypeID: userType.ID, UserTypeName: userType.Name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) RegisterCustomer(ctx context.Context, in PartyRegisterInput) (*RegisterResult, error) {
	return s.registerParty(ctx, in, models.RoleCustomer)
}

func (s *Service) RegisterSupplier(ctx context.Context, in PartyRegisterInput) (*RegisterResult, error) {
	return s.registerParty(ctx, in, models.RoleSupplier)
}

func (s *Service) registerParty(ctx context.Context, in PartyRegisterInput, role string) (*RegisterResult, error) {
	if err := validateCredentials(&in.FullName, &in.Username, in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}
	if err := in.Profile.Normalize(); err != nil {
		return nil, err
	}

	var result *RegisterResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		userType, err := tx.UserTypes.FindSingle(ctx, repository.Where("name = ?", role))
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("User type " + role + " is not configured")
		}
		if err != nil {
			return repository.Unexpected(err, "failed to load user type")
		}

		user, err := s.createUser(ctx, tx, in.FullName, in.Username, in.Password, *userType)
		if err != nil {
			return err
		}
		result = &RegisterResult{UserID: user.ID, UserTypeID: userType.ID, UserTypeName: userType.Name}

		switch role {
		case models.RoleCustomer:
			c := models.Customer{Name: in.Profile.Name, Address: in.Profile.Address, Contact: in.Profile.Contact, UserID: user.ID}
			if err := tx.Customers.Add(ctx, &c); err != nil {
				return repository.Unexpected(err, "failed to create customer")
			}
			result.CustomerID = &c.ID
		case models.RoleSupplier:
			sp := models.Supplier{Name: in.Profile.Name, Address: in.Profile.Address, Contact: in.Profile.Contact, UserID: user.ID}
			if err := tx.Suppliers.Add(ctx, &sp); err != nil {
				return repository.Unexpected(err, "failed to create supplier")
			}
			result.SupplierID = &sp.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("registered trading party", zap.String("username", in.Username), zap.String("role", role))
	return result, nil
}

func (s *Service) createUser(ctx context.Context, tx *repository.Store, fullName, username, password string, userType models.UserType) (*models.User, error) {
	taken, err := tx.Users.Exists(ctx, repository.Where("username = ?", username))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to check username")
	}
	if taken {
		return nil, apperr.Conflict("Username %q already exists", username)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Unexpected("failed to hash password", err)
	}

	user := models.User{
		FullName:     fullName,
		Username:     username,
		PasswordHash: hash,
		UserTypeID:   userType.ID,
	}
	if err := tx.Users.Add(ctx, &user); err != nil {
		return nil, repository.Unexpected(err, "failed to create user")
	}
	return &user, nil
}

func (s *Service) GetUserProfile(ctx context.Context, userID uuid.UUID) (*views.UserProfile, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, repository.AsAppError(err, "User", userID)
	}
	ut, err := s.store.UserTypes.GetByID(ctx, user.UserTypeID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, repository.Unexpected(err, "failed to load user type")
	}
	return views.Profile(*user, ut), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error {
	if in.CurrentPassword == "" {
		return apperr.ValidationField("currentPassword", "Current password is required")
	}
	if err := validatePassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return repository.AsAppError(err, "User", userID)
	}
	if !s.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		return apperr.Authentication("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return apperr.Unexpected("failed to hash password", err)
	}
	user.PasswordHash = hash
	if err := s.store.Users.Update(ctx, user); err != nil {
		return repository.Unexpected(err, "failed to update password")
	}
	return nil
}

func validateCredentials(fullName, username *string, password, confirm string) error {
	*fullName = strings.TrimSpace(*fullName)
	*username = strings.TrimSpace(*username)

	if l := len(*fullName); l < 2 || l > 100 {
		return apperr.ValidationField("fullName", "Full name must be between 2 and 100 characters")
	}
	if l := len(*username); l < 3 || l > 50 {
		return apperr.ValidationField("username", "Username must be between 3 and 50 characters")
	}
	if !usernamePattern.MatchString(*username) {
		return apperr.ValidationField("username", "Username can only contain letters, numbers, dots, underscores, and hyphens")
	}
	return validatePassword(password, confirm)
}

// validatePassword requires 8 to 100 characters mixing upper case, lower case,
// digits and symbols.
func validatePassword(password, confirm string) error {
	if l := len(password); l < 8 || l > 100 {
		return apperr.ValidationField("password", "Password must be at least 8 characters long")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return apperr.ValidationField("password", "Password must contain an uppercase letter, a lowercase letter, a digit and a special character")
	}
	if password != confirm {
		return apperr.ValidationField("confirmPassword", "Password and confirmation password do not match")
	}
	return nil
}
