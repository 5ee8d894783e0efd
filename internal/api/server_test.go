package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"licensedesk/internal/api/middleware"
	"licensedesk/internal/models"
)

// MockLicenseStore is a mock implementation of store.LicenseStore
type MockLicenseStore struct {
	mock.Mock
}

func (m *MockLicenseStore) ListLicenses(ctx context.Context, user models.User) ([]models.License, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.License), args.Error(1)
}

func (m *MockLicenseStore) GetLicense(ctx context.Context, id int) (*models.License, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.License), args.Error(1)
}

func (m *MockLicenseStore) CreateLicense(ctx context.Context, license *models.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

func (m *MockLicenseStore) UpdateLicense(ctx context.Context, license *models.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

func (m *MockLicenseStore) DeleteLicense(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductStore is a mock implementation of store.ProductStore
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) GetTotals(ctx context.Context) (models.LicenseTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.LicenseTotals), args.Error(1)
}

func (m *MockProductStore) ReplaceTotals(ctx context.Context, totals models.LicenseTotals) error {
	args := m.Called(ctx, totals)
	return args.Error(0)
}

func (m *MockProductStore) CreateProduct(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockProductStore) DeleteProduct(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockProductStore) RenameProduct(ctx context.Context, oldName, newName string) error {
	args := m.Called(ctx, oldName, newName)
	return args.Error(0)
}

// MockLogStore is a mock implementation of store.LogStore
type MockLogStore struct {
	mock.Mock
}

func (m *MockLogStore) CreateAdminLog(ctx context.Context, entry *models.AdminLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogStore) ListAdminLogs(ctx context.Context, limit int) ([]models.AdminLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdminLog), args.Error(1)
}

func newMockLogStore() *MockLogStore {
	logs := new(MockLogStore)
	logs.On("CreateAdminLog", mock.Anything, mock.Anything).Return(nil).Maybe()
	return logs
}

// actAs injects the user the way JWTAuth would after validating a token.
func actAs(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetUser(c, user)
		c.Next()
	}
}

var (
	adminUser   = models.User{Username: "admin", Role: models.RoleAdmin}
	regularUser = models.User{Username: "jdoe", Role: models.RoleUser}
)
