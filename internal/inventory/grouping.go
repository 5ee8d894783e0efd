package inventory

import (
	"strconv"
	"strings"

	"licensedesk/internal/models"
)

// ProductGroup is one product section of the inventory: every license in use
// under that name plus the purchased/used/available counters. Available may
// be negative when more licenses are assigned than were purchased; that is a
// shortage to surface, not an error.
type ProductGroup struct {
	Product    string
	Registered bool
	Total      int
	Used       int
	Available  int
	Licenses   []models.License
}

// GroupByProduct partitions licenses by product name. Every registry name is
// seeded with an empty group, so purchased-but-unassigned products still
// appear. The registry is the union of license names and totals keys, which
// means a license whose product was dropped from the totals mapping is still
// surfaced; its group is simply marked unregistered.
func GroupByProduct(licenses []models.License, totals models.LicenseTotals) []ProductGroup {
	names := ProductNames(licenses, totals)

	byName := make(map[string]int, len(names))
	groups := make([]ProductGroup, len(names))
	for i, name := range names {
		_, registered := totals[name]
		groups[i] = ProductGroup{
			Product:    name,
			Registered: registered,
			Total:      totals[name],
			Licenses:   []models.License{},
		}
		byName[name] = i
	}

	for _, l := range licenses {
		i, ok := byName[l.Product]
		if !ok {
			// Unreachable while the registry is derived from the same
			// license list, kept so a caller-supplied subset cannot panic.
			continue
		}
		groups[i].Licenses = append(groups[i].Licenses, l)
	}

	for i := range groups {
		groups[i].Used = len(groups[i].Licenses)
		groups[i].Available = groups[i].Total - groups[i].Used
	}
	return groups
}

// FilterGroups applies a case-insensitive free-text query. A group survives
// when its product name matches or at least one of its licenses does, and it
// keeps only the matching licenses. Used/Available reflect the visible
// subset. An empty query returns the groups unchanged.
func FilterGroups(groups []ProductGroup, query string) []ProductGroup {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return groups
	}

	filtered := make([]ProductGroup, 0, len(groups))
	for _, g := range groups {
		var matching []models.License
		for _, l := range g.Licenses {
			if licenseMatches(l, q) {
				matching = append(matching, l)
			}
		}
		if len(matching) == 0 && !strings.Contains(strings.ToLower(g.Product), q) {
			continue
		}
		if matching == nil {
			matching = []models.License{}
		}
		g.Licenses = matching
		g.Used = len(matching)
		g.Available = g.Total - g.Used
		filtered = append(filtered, g)
	}
	return filtered
}

// SelectProduct narrows groups to the one exactly matching name. Empty name
// keeps everything.
func SelectProduct(groups []ProductGroup, name string) []ProductGroup {
	if name == "" {
		return groups
	}
	for _, g := range groups {
		if g.Product == name {
			return []ProductGroup{g}
		}
	}
	return []ProductGroup{}
}

// licenseMatches checks every field's string representation for the
// lowercased query substring, mirroring the screen's search box.
func licenseMatches(l models.License, q string) bool {
	fields := []string{
		strconv.Itoa(l.ID),
		l.Product,
		l.LicenseType,
		l.SerialKey,
		l.ExpirationDate,
		l.AssignedUser,
		l.JobTitle,
		l.Department,
		l.Manager,
		l.CostCenter,
		l.LedgerAccount,
		l.ComputerName,
		l.TicketNumber,
		l.Notes,
		string(l.ApprovalStatus),
		l.RejectionReason,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ApprovalBadge maps an approval status to its display label. Approved and
// absent rows carry no badge; unknown values also produce none rather than
// failing the row.
func ApprovalBadge(status models.ApprovalStatus) string {
	switch status {
	case models.ApprovalPending:
		return "Pending approval"
	case models.ApprovalRejected:
		return "Rejected"
	default:
		return ""
	}
}
