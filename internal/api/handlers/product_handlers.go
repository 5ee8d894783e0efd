package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"licensedesk/internal/api/middleware"
	"licensedesk/internal/inventory"
	"licensedesk/internal/models"
	"licensedesk/internal/service"
	"licensedesk/internal/store"
)

type createProductRequest struct {
	Name string `json:"name" binding:"required"`
}

type renameProductRequest struct {
	OldName string `json:"old_name" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

// GetTotalsHandler handles GET /api/license-totals
func GetTotalsHandler(productStore store.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		totals, err := productStore.GetTotals(c.Request.Context())
		if err != nil {
			slog.Error("Failed to get license totals", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get license totals"})
			return
		}
		c.JSON(http.StatusOK, totals)
	}
}

// SaveTotalsHandler handles PUT /api/license-totals with full-replace
// semantics. Every entry is validated before anything is written, so a bad
// value leaves the stored mapping untouched.
func SaveTotalsHandler(productStore store.ProductStore, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totals models.LicenseTotals
		if err := c.ShouldBindJSON(&totals); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := inventory.ValidateTotals(totals); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := productStore.ReplaceTotals(c.Request.Context(), totals); err != nil {
			slog.Error("Failed to save license totals", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save license totals"})
			return
		}

		user := middleware.CurrentUser(c)
		logEntry := &models.AdminLog{
			Action:     "SAVE_LICENSE_TOTALS",
			EntityType: "license_totals",
			Actor:      user.Username,
			Details:    map[string]interface{}{"products": len(totals)},
			CreatedAt:  time.Now(),
		}
		service.AsyncLogAdminAction(c.Request.Context(), logStore, logEntry)

		c.JSON(http.StatusOK, gin.H{"message": "License totals saved"})
	}
}

// registryNames loads the derived registry (license names plus totals keys)
// for name validation. On a failed read it responds with a 500 and returns
// ok=false.
func registryNames(c *gin.Context, licenseStore store.LicenseStore, productStore store.ProductStore, user models.User) ([]string, bool) {
	licenses, err := licenseStore.ListLicenses(c.Request.Context(), user)
	if err != nil {
		slog.Error("Failed to load licenses for product validation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load licenses"})
		return nil, false
	}
	totals, err := productStore.GetTotals(c.Request.Context())
	if err != nil {
		slog.Error("Failed to load license totals for product validation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load license totals"})
		return nil, false
	}
	return inventory.ProductNames(licenses, totals), true
}

// CreateProductHandler handles POST /api/products: a registry-only add with
// total 0, no license side effect. The name is validated against the derived
// registry, so it also collides with products that exist only on license
// rows.
func CreateProductHandler(licenseStore store.LicenseStore, productStore store.ProductStore, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
			return
		}

		user := middleware.CurrentUser(c)
		names, ok := registryNames(c, licenseStore, productStore, user)
		if !ok {
			return
		}

		name, err := inventory.ValidateNewName(names, req.Name)
		if err != nil {
			if errors.Is(err, inventory.ErrDuplicateName) {
				c.JSON(http.StatusConflict, gin.H{"error": "Product name already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := productStore.CreateProduct(c.Request.Context(), name); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": "Product name already exists"})
				return
			}
			slog.Error("Failed to create product", "error", err, "name", name)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		slog.Info("Product created", "name", name)

		logEntry := &models.AdminLog{
			Action:     "CREATE_PRODUCT",
			EntityType: "license_totals",
			Actor:      user.Username,
			Details:    map[string]interface{}{"name": name},
			CreatedAt:  time.Now(),
		}
		service.AsyncLogAdminAction(c.Request.Context(), logStore, logEntry)

		c.JSON(http.StatusCreated, gin.H{"name": name, "total": 0})
	}
}

// DeleteProductHandler handles DELETE /api/products/:name. The removal is
// registry-only: license rows keep the name and resurface it in the derived
// registry until they move elsewhere.
func DeleteProductHandler(productStore store.ProductStore, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		if err := productStore.DeleteProduct(c.Request.Context(), name); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			slog.Error("Failed to delete product", "error", err, "name", name)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		user := middleware.CurrentUser(c)
		logEntry := &models.AdminLog{
			Action:     "DELETE_PRODUCT",
			EntityType: "license_totals",
			Actor:      user.Username,
			Details:    map[string]interface{}{"name": name},
			CreatedAt:  time.Now(),
		}
		service.AsyncLogAdminAction(c.Request.Context(), logStore, logEntry)

		c.JSON(http.StatusOK, gin.H{"message": "Product removed from registry"})
	}
}

// RenameProductHandler handles POST /api/products/rename. The cascade over
// license rows and the totals key is atomic in the store; a duplicate name
// aborts with no partial effect.
func RenameProductHandler(licenseStore store.LicenseStore, productStore store.ProductStore, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req renameProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		oldName := strings.TrimSpace(req.OldName)
		newName := strings.TrimSpace(req.NewName)
		if newName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New product name is required"})
			return
		}
		if newName == oldName {
			c.JSON(http.StatusOK, gin.H{"message": "Product name unchanged"})
			return
		}

		user := middleware.CurrentUser(c)
		names, ok := registryNames(c, licenseStore, productStore, user)
		if !ok {
			return
		}

		if _, err := inventory.ValidateRename(names, oldName, newName); err != nil {
			if errors.Is(err, inventory.ErrDuplicateName) {
				c.JSON(http.StatusConflict, gin.H{"error": "Product name already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := productStore.RenameProduct(c.Request.Context(), oldName, newName); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": "Product name already exists"})
				return
			}
			slog.Error("Failed to rename product", "error", err, "old_name", oldName, "new_name", newName)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename product"})
			return
		}

		slog.Info("Product renamed", "old_name", oldName, "new_name", newName)

		logEntry := &models.AdminLog{
			Action:     "RENAME_PRODUCT",
			EntityType: "license_totals",
			Actor:      user.Username,
			Details:    map[string]interface{}{"old_name": oldName, "new_name": newName},
			CreatedAt:  time.Now(),
		}
		service.AsyncLogAdminAction(c.Request.Context(), logStore, logEntry)

		c.JSON(http.StatusOK, gin.H{"message": "Product renamed"})
	}
}
