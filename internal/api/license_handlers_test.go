package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"licensedesk/internal/api/handlers"
	"licensedesk/internal/models"
	"licensedesk/internal/store"
)

func TestCreateLicenseHandler_ApprovalByRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := map[string]string{
		"produto":     "Office Suite",
		"chaveSerial": "OFF-123",
		"usuario":     "alice",
	}

	t.Run("admin lands approved", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("CreateLicense", mock.Anything, mock.MatchedBy(func(l *models.License) bool {
			return l.ApprovalStatus == models.ApprovalApproved && l.RequestedBy == "admin"
		})).Return(nil)

		router := gin.New()
		router.POST("/api/licenses", actAs(adminUser), handlers.CreateLicenseHandler(mockLicenseStore, newMockLogStore()))

		b, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", "/api/licenses", bytes.NewBuffer(b))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockLicenseStore.AssertExpectations(t)
	})

	t.Run("regular user lands pending", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("CreateLicense", mock.Anything, mock.MatchedBy(func(l *models.License) bool {
			return l.ApprovalStatus == models.ApprovalPending && l.RequestedBy == "jdoe"
		})).Return(nil)

		router := gin.New()
		router.POST("/api/licenses", actAs(regularUser), handlers.CreateLicenseHandler(mockLicenseStore, newMockLogStore()))

		b, _ := json.Marshal(body)
		req, _ := http.NewRequest("POST", "/api/licenses", bytes.NewBuffer(b))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockLicenseStore.AssertExpectations(t)
	})
}

func TestCreateLicenseHandler_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockLicenseStore := new(MockLicenseStore)
	router := gin.New()
	router.POST("/api/licenses", actAs(adminUser), handlers.CreateLicenseHandler(mockLicenseStore, newMockLogStore()))

	t.Run("missing product rejected", func(t *testing.T) {
		b, _ := json.Marshal(map[string]string{"chaveSerial": "X-1", "usuario": "alice"})
		req, _ := http.NewRequest("POST", "/api/licenses", bytes.NewBuffer(b))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("whitespace-only product rejected", func(t *testing.T) {
		b, _ := json.Marshal(map[string]string{"produto": "   ", "chaveSerial": "X-1", "usuario": "alice"})
		req, _ := http.NewRequest("POST", "/api/licenses", bytes.NewBuffer(b))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// No writes should have been attempted.
	mockLicenseStore.AssertNotCalled(t, "CreateLicense", mock.Anything, mock.Anything)
}

func TestUpdateLicenseHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("full field replace preserves id", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("UpdateLicense", mock.Anything, mock.MatchedBy(func(l *models.License) bool {
			return l.ID == 42 && l.Product == "Acme CAD" && l.AssignedUser == "bob"
		})).Return(nil)

		router := gin.New()
		router.PUT("/api/licenses/:id", actAs(adminUser), handlers.UpdateLicenseHandler(mockLicenseStore, newMockLogStore()))

		b, _ := json.Marshal(map[string]string{"produto": "Acme CAD", "chaveSerial": "CAD-1", "usuario": "bob"})
		req, _ := http.NewRequest("PUT", "/api/licenses/42", bytes.NewBuffer(b))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockLicenseStore.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("UpdateLicense", mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: license", store.ErrNotFound))

		router := gin.New()
		router.PUT("/api/licenses/:id", actAs(adminUser), handlers.UpdateLicenseHandler(mockLicenseStore, newMockLogStore()))

		b, _ := json.Marshal(map[string]string{"produto": "Acme CAD", "chaveSerial": "CAD-1", "usuario": "bob"})
		req, _ := http.NewRequest("PUT", "/api/licenses/999", bytes.NewBuffer(b))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		router := gin.New()
		router.PUT("/api/licenses/:id", actAs(adminUser), handlers.UpdateLicenseHandler(new(MockLicenseStore), newMockLogStore()))

		req, _ := http.NewRequest("PUT", "/api/licenses/abc", bytes.NewBufferString("{}"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteLicenseHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("deletes by id", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("DeleteLicense", mock.Anything, 7).Return(nil)

		router := gin.New()
		router.DELETE("/api/licenses/:id", actAs(adminUser), handlers.DeleteLicenseHandler(mockLicenseStore, newMockLogStore()))

		req, _ := http.NewRequest("DELETE", "/api/licenses/7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockLicenseStore.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("DeleteLicense", mock.Anything, 7).
			Return(fmt.Errorf("%w: license", store.ErrNotFound))

		router := gin.New()
		router.DELETE("/api/licenses/:id", actAs(adminUser), handlers.DeleteLicenseHandler(mockLicenseStore, newMockLogStore()))

		req, _ := http.NewRequest("DELETE", "/api/licenses/7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListLicensesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns rows", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("ListLicenses", mock.Anything, regularUser).Return([]models.License{
			{ID: 1, Product: "Office Suite", AssignedUser: "jdoe", ApprovalStatus: models.ApprovalPending},
		}, nil)

		router := gin.New()
		router.GET("/api/licenses", actAs(regularUser), handlers.ListLicensesHandler(mockLicenseStore))

		req, _ := http.NewRequest("GET", "/api/licenses", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []models.License
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Office Suite", resp[0].Product)
	})

	t.Run("empty list is a JSON array", func(t *testing.T) {
		mockLicenseStore := new(MockLicenseStore)
		mockLicenseStore.On("ListLicenses", mock.Anything, regularUser).Return([]models.License(nil), nil)

		router := gin.New()
		router.GET("/api/licenses", actAs(regularUser), handlers.ListLicensesHandler(mockLicenseStore))

		req, _ := http.NewRequest("GET", "/api/licenses", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}
