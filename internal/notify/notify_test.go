package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestChannelNames(t *testing.T) {
	id := uuid.MustParse("7f1c2f0e-5d0a-4b8e-9a53-2f1f6c1d9e11")

	require.Equal(t, "support:user:7f1c2f0e-5d0a-4b8e-9a53-2f1f6c1d9e11", UserChannel(id))
	require.Equal(t, AdminChannel, RoleChannel("Admin"))
	require.Equal(t, "support:role:Customer", RoleChannel("Customer"))
	require.Equal(t, "orders:events:order.created", OrderChannel(EventOrderCreated))
}
