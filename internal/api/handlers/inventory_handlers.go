package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"licensedesk/internal/api/middleware"
	"licensedesk/internal/inventory"
	"licensedesk/internal/models"
	"licensedesk/internal/store"
)

// GetInventoryHandler handles GET /api/inventory. The license list and the
// totals mapping are fetched as a fan-out pair, then reduced into the grouped
// screen state. Optional query params: q (free text), product (exact match).
func GetInventoryHandler(licenseStore store.LicenseStore, productStore store.ProductStore, expiringSoonDays int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		ctx := c.Request.Context()

		type licensesResult struct {
			licenses []models.License
			err      error
		}
		type totalsResult struct {
			totals models.LicenseTotals
			err    error
		}

		licensesCh := make(chan licensesResult, 1)
		totalsCh := make(chan totalsResult, 1)

		go func() {
			licenses, err := licenseStore.ListLicenses(ctx, user)
			licensesCh <- licensesResult{licenses, err}
		}()
		go func() {
			totals, err := productStore.GetTotals(ctx)
			totalsCh <- totalsResult{totals, err}
		}()

		lr := <-licensesCh
		tr := <-totalsCh

		if lr.err != nil {
			slog.Error("Failed to load licenses for inventory view", "error", lr.err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load licenses"})
			return
		}
		if tr.err != nil {
			slog.Error("Failed to load license totals for inventory view", "error", tr.err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load license totals"})
			return
		}

		view := inventory.BuildView(
			lr.licenses,
			tr.totals,
			c.Query("q"),
			c.Query("product"),
			time.Now(),
			expiringSoonDays,
		)

		c.JSON(http.StatusOK, view)
	}
}
