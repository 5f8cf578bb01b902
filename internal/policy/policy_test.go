package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"inventory-system/internal/apperr"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		policy Policy
		role   string
		allow  bool
	}{
		{RequireAdminRole, "Admin", true},
		{RequireAdminRole, "Customer", false},
		{RequireAdminRole, "Supplier", false},
		{AdminOrSupplier, "Admin", true},
		{AdminOrSupplier, "Supplier", true},
		{AdminOrSupplier, "Customer", false},
		{AdminOrCustomer, "Admin", true},
		{AdminOrCustomer, "Customer", true},
		{AdminOrCustomer, "Supplier", false},
		{AnyTradingRole, "Supplier", true},
		{Authenticated, "Customer", true},
		{Authenticated, "", false},
		{RequireAdminRole, "", false},
		{RequireAdminRole, "admin", false},
		{Policy("Bogus"), "Admin", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy)+"/"+tt.role, func(t *testing.T) {
			err := Authorize(tt.policy, tt.role)
			if tt.allow {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
		})
	}
}
