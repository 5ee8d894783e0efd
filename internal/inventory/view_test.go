package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensedesk/internal/models"
)

func TestBuildView(t *testing.T) {
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.Local)

	licenses := []models.License{
		{ID: 1, Product: "Office Suite", AssignedUser: "alice", ExpirationDate: "2026-03-10"},
		{ID: 2, Product: "Office Suite", AssignedUser: "bob", ExpirationDate: "2026-04-01", ApprovalStatus: models.ApprovalPending},
		{ID: 3, Product: "Office Suite", AssignedUser: "carol"},
	}
	totals := models.LicenseTotals{"Office Suite": 5, "Antivirus": 2}

	view := BuildView(licenses, totals, "", "", now, 30)

	assert.Equal(t, []string{"Antivirus", "Office Suite"}, view.Products)
	require.Len(t, view.Groups, 2)

	office := view.Groups[1]
	require.Equal(t, "Office Suite", office.Product)
	assert.Equal(t, 5, office.Total)
	assert.Equal(t, 3, office.Used)
	assert.Equal(t, 2, office.Available)
	require.Len(t, office.Licenses, 3)

	assert.Equal(t, ExpirationExpired, office.Licenses[0].ExpirationStatus)
	assert.Equal(t, "10/03/2026", office.Licenses[0].ExpirationLabel)

	assert.Equal(t, ExpirationExpiringSoon, office.Licenses[1].ExpirationStatus)
	assert.Equal(t, "Pending approval", office.Licenses[1].ApprovalBadge)

	assert.Equal(t, ExpirationPerpetual, office.Licenses[2].ExpirationStatus)
	assert.Equal(t, "", office.Licenses[2].ExpirationLabel)
	assert.Equal(t, "", office.Licenses[2].ApprovalBadge)
}

func TestBuildView_QueryAndProductFilter(t *testing.T) {
	now := time.Now()
	licenses := []models.License{
		{ID: 1, Product: "Office Suite", AssignedUser: "alice"},
		{ID: 2, Product: "Acme CAD", AssignedUser: "alice"},
		{ID: 3, Product: "Acme CAD", AssignedUser: "bob"},
	}
	totals := models.LicenseTotals{}

	t.Run("free text spans groups", func(t *testing.T) {
		view := BuildView(licenses, totals, "alice", "", now, 30)
		require.Len(t, view.Groups, 2)
		assert.Len(t, view.Groups[0].Licenses, 1)
		assert.Len(t, view.Groups[1].Licenses, 1)
	})

	t.Run("exact product narrows first", func(t *testing.T) {
		view := BuildView(licenses, totals, "alice", "Acme CAD", now, 30)
		require.Len(t, view.Groups, 1)
		assert.Equal(t, "Acme CAD", view.Groups[0].Product)
		require.Len(t, view.Groups[0].Licenses, 1)
		assert.Equal(t, 2, view.Groups[0].Licenses[0].ID)
	})

	t.Run("products list ignores filters", func(t *testing.T) {
		view := BuildView(licenses, totals, "alice", "Acme CAD", now, 30)
		assert.Equal(t, []string{"Acme CAD", "Office Suite"}, view.Products)
	})
}
