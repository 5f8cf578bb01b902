// Package admin serves the administrator back office: dashboard rollups,
// user type management and user removal.
package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/lookup"
	"inventory-system/internal/services/party"
	"inventory-system/internal/services/views"
)

const recentOrderCount = 5

// IsProtectedAdmin reports whether user is the seeded administrator account,
// which can never be deleted.
func IsProtectedAdmin(user models.User, role string) bool {
	return user.Username == models.AdminUsername && role == models.RoleAdmin
}

type RecentOrder struct {
	ID          uuid.UUID       `json:"id"`
	OrderNo     string          `json:"orderNo"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type Dashboard struct {
	CustomersCount  int64           `json:"customersCount"`
	SuppliersCount  int64           `json:"suppliersCount"`
	CategoriesCount int64           `json:"categoriesCount"`
	ItemsCount      int64           `json:"itemsCount"`
	SalesTotal      decimal.Decimal `json:"salesTotal"`
	SalesCount      int             `json:"salesCount"`
	PurchaseTotal   decimal.Decimal `json:"purchaseTotal"`
	PurchaseCount   int             `json:"purchaseCount"`
	RecentSales     []RecentOrder   `json:"recentSales"`
	RecentPurchases []RecentOrder   `json:"recentPurchases"`
}

type UserTypeView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UserCount int64     `json:"userCount"`
}

type UserSummary struct {
	views.UserProfile
	HasCustomerProfile bool      `json:"hasCustomerProfile"`
	HasSupplierProfile bool      `json:"hasSupplierProfile"`
	CreatedDate        time.Time `json:"createdDate"`
}

type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

// Dashboard computes the rollups on every call.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.CustomersCount, err = s.store.Customers.Count(ctx); err != nil {
		return nil, repository.Unexpected(err, "failed to count customers")
	}
	if d.SuppliersCount, err = s.store.Suppliers.Count(ctx); err != nil {
		return nil, repository.Unexpected(err, "failed to count suppliers")
	}
	if d.CategoriesCount, err = s.store.Categories.Count(ctx); err != nil {
		return nil, repository.Unexpected(err, "failed to count categories")
	}
	if d.ItemsCount, err = s.store.Items.Count(ctx); err != nil {
		return nil, repository.Unexpected(err, "failed to count items")
	}

	sales, err := s.store.SalesOrders.FindAll(ctx, repository.OrderBy("order_date DESC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load sales orders")
	}
	purchases, err := s.store.PurchaseOrders.FindAll(ctx, repository.OrderBy("order_date DESC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load purchase orders")
	}

	d.SalesTotal = decimal.Zero
	d.RecentSales = make([]RecentOrder, 0, recentOrderCount)
	for i, o := range sales {
		d.SalesTotal = d.SalesTotal.Add(o.TotalAmount)
		if i < recentOrderCount {
			d.RecentSales = append(d.RecentSales, RecentOrder{o.ID, o.OrderNo, o.OrderDate, o.TotalAmount})
		}
	}
	d.SalesCount = len(sales)

	d.PurchaseTotal = decimal.Zero
	d.RecentPurchases = make([]RecentOrder, 0, recentOrderCount)
	for i, o := range purchases {
		d.PurchaseTotal = d.PurchaseTotal.Add(o.TotalAmount)
		if i < recentOrderCount {
			d.RecentPurchases = append(d.RecentPurchases, RecentOrder{o.ID, o.OrderNo, o.OrderDate, o.TotalAmount})
		}
	}
	d.PurchaseCount = len(purchases)

	return &d, nil
}

func (s *Service) GetAllUserTypes(ctx context.Context) ([]UserTypeView, error) {
	rows, err := s.store.UserTypes.FindAll(ctx, repository.OrderBy("name ASC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list user types")
	}
	out := make([]UserTypeView, 0, len(rows))
	for _, ut := range rows {
		v, err := s.userTypeView(ctx, ut)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) GetUserTypeByID(ctx context.Context, id uuid.UUID) (*UserTypeView, error) {
	ut, err := s.store.UserTypes.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "User type", id)
	}
	v, err := s.userTypeView(ctx, *ut)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) CreateUserType(ctx context.Context, name string) (*UserTypeView, error) {
	name, err := normalizeTypeName(name)
	if err != nil {
		return nil, err
	}
	if err := s.requireUniqueTypeName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	ut := models.UserType{Name: name}
	if err := s.store.UserTypes.Add(ctx, &ut); err != nil {
		return nil, repository.Unexpected(err, "failed to create user type")
	}
	return &UserTypeView{ID: ut.ID, Name: ut.Name}, nil
}

func (s *Service) UpdateUserType(ctx context.Context, id uuid.UUID, name string) (*UserTypeView, error) {
	name, err := normalizeTypeName(name)
	if err != nil {
		return nil, err
	}

	ut, err := s.store.UserTypes.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "User type", id)
	}
	if isBuiltInRole(ut.Name) && ut.Name != name {
		return nil, apperr.Conflict("Built-in user type %q cannot be renamed", ut.Name)
	}
	if err := s.requireUniqueTypeName(ctx, name, id); err != nil {
		return nil, err
	}

	ut.Name = name
	if err := s.store.UserTypes.Update(ctx, ut); err != nil {
		return nil, repository.Unexpected(err, "failed to update user type")
	}
	v, err := s.userTypeView(ctx, *ut)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteUserType removes an unused, non built-in user type.
func (s *Service) DeleteUserType(ctx context.Context, id uuid.UUID) (bool, error) {
	ut, err := s.store.UserTypes.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load user type")
	}

	inUse, err := s.store.Users.Exists(ctx, repository.Where("user_type_id = ?", id))
	if err != nil {
		return false, repository.Unexpected(err, "failed to check user type usage")
	}
	if inUse {
		return false, apperr.Conflict("Cannot delete user type %q because it is in use by one or more users", ut.Name)
	}
	if isBuiltInRole(ut.Name) {
		return false, apperr.Conflict("Built-in user type %q cannot be deleted", ut.Name)
	}

	if err := s.store.UserTypes.Delete(ctx, ut); err != nil {
		return false, repository.Unexpected(err, "failed to delete user type")
	}
	return true, nil
}

func (s *Service) GetAllUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.store.Users.FindAll(ctx, repository.OrderBy("username ASC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list users")
	}

	ids := make([]uuid.UUID, 0, len(users))
	typeIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
		typeIDs = append(typeIDs, u.UserTypeID)
	}
	types, err := lookup.UserTypes(ctx, s.store, typeIDs)
	if err != nil {
		return nil, err
	}
	customers, suppliers, err := s.profileOwners(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		var ut *models.UserType
		if t, ok := types[u.UserTypeID]; ok {
			ut = &t
		}
		out = append(out, UserSummary{
			UserProfile:        *views.Profile(u, ut),
			HasCustomerProfile: customers[u.ID],
			HasSupplierProfile: suppliers[u.ID],
			CreatedDate:        u.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*UserSummary, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "User", id)
	}
	ut, err := s.store.UserTypes.GetByID(ctx, user.UserTypeID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, repository.Unexpected(err, "failed to load user type")
	}
	customers, suppliers, err := s.profileOwners(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return &UserSummary{
		UserProfile:        *views.Profile(*user, ut),
		HasCustomerProfile: customers[id],
		HasSupplierProfile: suppliers[id],
		CreatedDate:        user.CreatedAt,
	}, nil
}

// DeleteUser removes a user along with its support messages and any linked
// customer or supplier profile. The seeded administrator is refused.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load user")
	}

	role, err := lookup.Role(ctx, s.store, *user)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return false, err
	}
	if IsProtectedAdmin(*user, role) {
		return false, apperr.Conflict("Cannot delete the system administrator account")
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		messages, err := tx.SupportMessages.FindAll(ctx, repository.Where("user_id = ?", id))
		if err != nil {
			return repository.Unexpected(err, "failed to load support messages")
		}
		for i := range messages {
			if err := tx.SupportMessages.Delete(ctx, &messages[i]); err != nil {
				return repository.Unexpected(err, "failed to delete support message")
			}
		}

		byUser := repository.Where("user_id = ?", id)
		customer, err := tx.Customers.FindSingle(ctx, byUser)
		switch {
		case err == nil:
			if err := party.DeleteCustomer(ctx, tx, customer); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return repository.Unexpected(err, "failed to load customer")
		}

		supplier, err := tx.Suppliers.FindSingle(ctx, byUser)
		switch {
		case err == nil:
			if err := party.DeleteSupplier(ctx, tx, supplier); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return repository.Unexpected(err, "failed to load supplier")
		}

		if err := tx.Users.Delete(ctx, user); err != nil {
			return repository.Unexpected(err, "failed to delete user")
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	zap.L().Info("user deleted", zap.String("username", user.Username), zap.String("role", role))
	return true, nil
}

func (s *Service) userTypeView(ctx context.Context, ut models.UserType) (UserTypeView, error) {
	count, err := s.store.Users.Count(ctx, repository.Where("user_type_id = ?", ut.ID))
	if err != nil {
		return UserTypeView{}, repository.Unexpected(err, "failed to count users")
	}
	return UserTypeView{ID: ut.ID, Name: ut.Name, UserCount: count}, nil
}

func (s *Service) requireUniqueTypeName(ctx context.Context, name string, self uuid.UUID) error {
	taken, err := s.store.UserTypes.Exists(ctx,
		repository.Where("LOWER(name) = ?", strings.ToLower(name)),
		repository.Where("id <> ?", self),
	)
	if err != nil {
		return repository.Unexpected(err, "failed to check user type name")
	}
	if taken {
		return apperr.Conflict("User type %q already exists", name)
	}
	return nil
}

func (s *Service) profileOwners(ctx context.Context, userIDs []uuid.UUID) (customers, suppliers map[uuid.UUID]bool, err error) {
	customers = make(map[uuid.UUID]bool)
	suppliers = make(map[uuid.UUID]bool)
	if len(userIDs) == 0 {
		return customers, suppliers, nil
	}

	cs, err := s.store.Customers.FindAll(ctx, repository.Where("user_id IN ?", userIDs))
	if err != nil {
		return nil, nil, repository.Unexpected(err, "failed to load customers")
	}
	for _, c := range cs {
		customers[c.UserID] = true
	}
	ss, err := s.store.Suppliers.FindAll(ctx, repository.Where("user_id IN ?", userIDs))
	if err != nil {
		return nil, nil, repository.Unexpected(err, "failed to load suppliers")
	}
	for _, sp := range ss {
		suppliers[sp.UserID] = true
	}
	return customers, suppliers, nil
}

func normalizeTypeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if l := len(name); l < 2 || l > 50 {
		return "", apperr.ValidationField("name", "Name must be between 2 and 50 characters")
	}
	return name, nil
}

func isBuiltInRole(name string) bool {
	switch name {
	case models.RoleAdmin, models.RoleCustomer, models.RoleSupplier:
		return true
	}
	return false
}
