package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
)

// MockItemRepository is a mock implementation of ports.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Patch(ctx context.Context, id string, fields map[string]interface{}) (*catalog.Item, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, id string) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Query(ctx context.Context, filter ports.ListFilter) (*ports.ItemPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ItemPage), args.Error(1)
}

// MockAccountReader is a mock implementation of ports.AccountReader
type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) ListPage(ctx context.Context, pageToken string) ([]*catalog.AccountEntitlement, string, error) {
	args := m.Called(ctx, pageToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]*catalog.AccountEntitlement), args.String(1), args.Error(2)
}

// MockSystemReader is a mock implementation of ports.SystemReader
type MockSystemReader struct {
	mock.Mock
}

func (m *MockSystemReader) ListPage(ctx context.Context, pageToken string) ([]*catalog.GamingSystem, string, error) {
	args := m.Called(ctx, pageToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]*catalog.GamingSystem), args.String(1), args.Error(2)
}

// MockMediaStore is a mock implementation of ports.MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Store(ctx context.Context, systemID, itemID, name string, data []byte) (string, error) {
	args := m.Called(ctx, systemID, itemID, name, data)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) DeleteAll(ctx context.Context, systemID, itemID string) error {
	args := m.Called(ctx, systemID, itemID)
	return args.Error(0)
}

// MockImageProcessor is a mock implementation of ports.ImageProcessor
type MockImageProcessor struct {
	mock.Mock
}

func (m *MockImageProcessor) Process(data []byte) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event catalog.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMetricsRecorder is a mock implementation of ports.MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) Count(ctx context.Context, name string, value float64, dimensions map[string]string) error {
	args := m.Called(ctx, name, value, dimensions)
	return args.Error(0)
}
