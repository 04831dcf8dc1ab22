package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hoster-project/portal-sync/internal/core/domain"
)

// MockCache is a mock implementation of ports.Cache
type MockCache struct {
	mock.Mock
}

func NewMockCache() *MockCache {
	return &MockCache{}
}

func (m *MockCache) Invalidate(key domain.ResourceKey) {
	m.Called(key)
}

// MockNavigator is a mock implementation of ports.Navigator
type MockNavigator struct {
	mock.Mock
}

func NewMockNavigator() *MockNavigator {
	return &MockNavigator{}
}

func (m *MockNavigator) Navigate(path string) {
	m.Called(path)
}

func (m *MockNavigator) Assign(absoluteURL string) {
	m.Called(absoluteURL)
}

// MockPlayer is a mock implementation of ports.Player
type MockPlayer struct {
	mock.Mock
}

func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

func (m *MockPlayer) Play(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockUnreadSource is a mock implementation of ports.UnreadSource
type MockUnreadSource struct {
	mock.Mock
}

func NewMockUnreadSource() *MockUnreadSource {
	return &MockUnreadSource{}
}

func (m *MockUnreadSource) UnreadCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
