package inventory

import (
	"time"

	"licensedesk/internal/models"
)

// LicenseEntry is a license row decorated with the derived display state the
// screen needs: expiration bucket, formatted date, approval badge.
type LicenseEntry struct {
	models.License
	ExpirationStatus ExpirationStatus `json:"expiration_status"`
	ExpirationLabel  string           `json:"expiration_label,omitempty"`
	ApprovalBadge    string           `json:"approval_badge,omitempty"`
}

type GroupEntry struct {
	Product    string         `json:"produto"`
	Registered bool           `json:"registered"`
	Total      int            `json:"total"`
	Used       int            `json:"used"`
	Available  int            `json:"available"`
	Licenses   []LicenseEntry `json:"licenses"`
}

// View is the whole derived screen state: the product registry plus the
// grouped, filtered, annotated license list.
type View struct {
	Products []string     `json:"products"`
	Groups   []GroupEntry `json:"groups"`
}

// BuildView is the reducer over the two independently fetched collections.
// It never mutates its inputs and touches no I/O, so it can be recomputed
// from scratch after every reload.
func BuildView(licenses []models.License, totals models.LicenseTotals, query, product string, now time.Time, soonDays int) View {
	groups := GroupByProduct(licenses, totals)
	groups = SelectProduct(groups, product)
	groups = FilterGroups(groups, query)

	entries := make([]GroupEntry, len(groups))
	for i, g := range groups {
		rows := make([]LicenseEntry, len(g.Licenses))
		for j, l := range g.Licenses {
			status := ClassifyExpiration(l.ExpirationDate, now, soonDays)
			var label string
			if status != ExpirationPerpetual {
				label = FormatExpirationDate(l.ExpirationDate)
			}
			rows[j] = LicenseEntry{
				License:          l,
				ExpirationStatus: status,
				ExpirationLabel:  label,
				ApprovalBadge:    ApprovalBadge(l.ApprovalStatus),
			}
		}
		entries[i] = GroupEntry{
			Product:    g.Product,
			Registered: g.Registered,
			Total:      g.Total,
			Used:       g.Used,
			Available:  g.Available,
			Licenses:   rows,
		}
	}

	return View{
		Products: ProductNames(licenses, totals),
		Groups:   entries,
	}
}
