// Package notifytest provides testify mocks for the notify interfaces.
package notifytest

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"inventory-system/internal/notify"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAdmins(ctx context.Context, payload interface{}) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, payload interface{}) error {
	args := m.Called(ctx, userID, payload)
	return args.Error(0)
}

type MockOrderPublisher struct {
	mock.Mock
}

func (m *MockOrderPublisher) PublishOrderEvent(ctx context.Context, event notify.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
