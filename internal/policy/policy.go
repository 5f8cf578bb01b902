// Package policy maps named access policies to the roles allowed through them.
package policy

import (
	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
)

type Policy string

const (
	Authenticated    Policy = "Authenticated"
	RequireAdminRole Policy = "RequireAdminRole"
	AdminOrSupplier  Policy = "AdminOrSupplier"
	AdminOrCustomer  Policy = "AdminOrCustomer"
	AnyTradingRole   Policy = "AnyTradingRole"
)

var policyRoles = map[Policy][]string{
	RequireAdminRole: {models.RoleAdmin},
	AdminOrSupplier:  {models.RoleAdmin, models.RoleSupplier},
	AdminOrCustomer:  {models.RoleAdmin, models.RoleCustomer},
	AnyTradingRole:   {models.RoleAdmin, models.RoleCustomer, models.RoleSupplier},
}

// Authorize reports whether a caller holding role satisfies p.
func Authorize(p Policy, role string) error {
	if role == "" {
		return apperr.Authorization("missing role claim")
	}
	if p == Authenticated {
		return nil
	}
	roles, ok := policyRoles[p]
	if !ok {
		return apperr.Authorization("unknown policy " + string(p))
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return apperr.Authorization("role " + role + " is not permitted by policy " + string(p))
}
