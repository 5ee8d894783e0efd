package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"licensedesk/internal/api/middleware"
	"licensedesk/internal/models"
	"licensedesk/internal/service"
	"licensedesk/internal/store"
)

type licenseRequest struct {
	Product        string `json:"produto" binding:"required"`
	LicenseType    string `json:"tipoLicenca"`
	SerialKey      string `json:"chaveSerial" binding:"required"`
	ExpirationDate string `json:"dataExpiracao"`
	AssignedUser   string `json:"usuario" binding:"required"`
	JobTitle       string `json:"cargo"`
	Department     string `json:"setor"`
	Manager        string `json:"gestor"`
	CostCenter     string `json:"centroCusto"`
	LedgerAccount  string `json:"contaRazao"`
	ComputerName   string `json:"nomeComputador"`
	TicketNumber   string `json:"numeroChamado"`
	Notes          string `json:"observacoes"`
}

func (r licenseRequest) apply(l *models.License) {
	l.Product = strings.TrimSpace(r.Product)
	l.LicenseType = r.LicenseType
	l.SerialKey = r.SerialKey
	l.ExpirationDate = r.ExpirationDate
	l.AssignedUser = r.AssignedUser
	l.JobTitle = r.JobTitle
	l.Department = r.Department
	l.Manager = r.Manager
	l.CostCenter = r.CostCenter
	l.LedgerAccount = r.LedgerAccount
	l.ComputerName = r.ComputerName
	l.TicketNumber = r.TicketNumber
	l.Notes = r.Notes
}

// ListLicensesHandler handles GET /api/licenses
func ListLicensesHandler(licenseStore store.LicenseStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		licenses, err := licenseStore.ListLicenses(c.Request.Context(), user)
		if err != nil {
			slog.Error("Failed to list licenses", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list licenses"})
			return
		}

		// Empty slice instead of nil for JSON consistency
		if licenses == nil {
			licenses = []models.License{}
		}

		c.JSON(http.StatusOK, licenses)
	}
}

// CreateLicenseHandler handles POST /api/licenses. The caller's role decides
// the initial approval state: admins land approved, everyone else files a
// pending request.
func CreateLicenseHandler(licenseStore store.LicenseStore, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req licenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)

		license := &models.License{
			ApprovalStatus: models.ApprovalPending,
			RequestedBy:    user.Username,
		}
		if user.IsAdmin() {
			license.ApprovalStatus = models.ApprovalApproved
		}
		req.apply(license)

		if license.Product == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
			return
		}

		if err := licenseStore.CreateLicense(c.Request.Context(), license); err != nil {
			slog.Error("Failed to create license", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save license"})
			return
		}

		slog.Info("License created",
			"license_id", license.ID,
			"product", license.Product,
			"approval_status", license.ApprovalStatus,
		)

		logEntry := &models.AdminLog{
			Action:     "CREATE_LICENSE",
			EntityType: "licenses",
			Actor:      user.Username,
			Details: map[string]interface{}{
				"license_id":      license.ID,
				"product":         license.Product,
				"assigned_user":   license.AssignedUser,
				"approval_status": license.ApprovalStatus,
			},
			CreatedAt: time.Now(),
		}
		service.AsyncLogAdminAction(c.Request.Context(), logStore, logEntry)

		c.JSON(http.StatusCreated, license)
	}
}

// UpdateLicenseHandler handles PUT /api/licenses/:id. Every editable field is
// replaced; the id and approval state survive the write.
func UpdateLicenseHandler(licenseStore store.LicenseStore, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := requireLicenseID(c)
		if !ok {
			return
		}

		var req licenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		license := &models.License{ID: id}
		req.apply(license)

		if license.Product == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
			return
		}

		if err := licenseStore.UpdateLicense(c.Request.Context(), license); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "License not found"})
				return
			}
			slog.Error("Failed to update license", "error", err, "license_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update license"})
			return
		}

		user := middleware.CurrentUser(c)
		logEntry := &models.AdminLog{
			Action:     "UPDATE_LICENSE",
			EntityType: "licenses",
			Actor:      user.Username,
			Details: map[string]interface{}{
				"license_id": id,
				"product":    license.Product,
			},
			CreatedAt: time.Now(),
		}
		service.AsyncLogAdminAction(c.Request.Context(), logStore, logEntry)

		c.JSON(http.StatusOK, license)
	}
}

// DeleteLicenseHandler handles DELETE /api/licenses/:id. The delete is hard
// and irreversible; the screen asks for confirmation before calling.
func DeleteLicenseHandler(licenseStore store.LicenseStore, logStore store.LogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := requireLicenseID(c)
		if !ok {
			return
		}

		if err := licenseStore.DeleteLicense(c.Request.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "License not found"})
				return
			}
			slog.Error("Failed to delete license", "error", err, "license_id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete license"})
			return
		}

		slog.Info("License deleted", "license_id", id)

		user := middleware.CurrentUser(c)
		logEntry := &models.AdminLog{
			Action:     "DELETE_LICENSE",
			EntityType: "licenses",
			Actor:      user.Username,
			Details:    map[string]interface{}{"license_id": id},
			CreatedAt:  time.Now(),
		}
		service.AsyncLogAdminAction(c.Request.Context(), logStore, logEntry)

		c.JSON(http.StatusOK, gin.H{"message": "License deleted"})
	}
}

func requireLicenseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid license id"})
		return 0, false
	}
	return id, true
}
