package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"licensedesk/internal/models"
)

var (
	ErrEmptyName     = errors.New("product name is empty")
	ErrDuplicateName = errors.New("product name already exists")
	ErrInvalidTotal  = errors.New("total must be a non-negative integer")
)

// ProductNames derives the registry: the union of distinct product names on
// license rows and the keys of the totals mapping, sorted case-insensitively
// and duplicate-free. A product may appear with licenses but no recorded
// total, or with a total but no licenses yet.
func ProductNames(licenses []models.License, totals models.LicenseTotals) []string {
	seen := make(map[string]struct{}, len(totals))
	names := make([]string, 0, len(totals))

	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, l := range licenses {
		add(l.Product)
	}
	for name := range totals {
		add(name)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
	return names
}

// containsFold reports whether candidate matches any of names ignoring case.
func containsFold(names []string, candidate string) bool {
	for _, n := range names {
		if strings.EqualFold(n, candidate) {
			return true
		}
	}
	return false
}

// ValidateNewName trims candidate and rejects it if empty or if a name
// differing only in case already exists. Returns the trimmed name.
func ValidateNewName(existing []string, candidate string) (string, error) {
	name := strings.TrimSpace(candidate)
	if name == "" {
		return "", ErrEmptyName
	}
	if containsFold(existing, name) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	return name, nil
}

// ValidateRename trims newName and rejects it if empty or if any name other
// than oldName collides with it case-insensitively. Renaming a product to a
// case variant of itself is allowed.
func ValidateRename(existing []string, oldName, newName string) (string, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return "", ErrEmptyName
	}
	for _, n := range existing {
		if n == oldName {
			continue
		}
		if strings.EqualFold(n, name) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}
	return name, nil
}

// ValidateTotals checks a full totals mapping before it is persisted. Any
// invalid entry rejects the whole save so the prior state is retained.
func ValidateTotals(totals models.LicenseTotals) error {
	for name, total := range totals {
		if strings.TrimSpace(name) == "" {
			return ErrEmptyName
		}
		if total < 0 {
			return fmt.Errorf("%w: %s has %d", ErrInvalidTotal, name, total)
		}
	}
	return nil
}
