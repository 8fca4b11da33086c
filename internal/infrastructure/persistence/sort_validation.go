package persistence

import (
	"strings"

	"github.com/phonestore/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"price":      true,
	"stock":      true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
}

// CouponSortFields contains allowed sort fields for coupons
var CouponSortFields = map[string]bool{
	"created_at":      true,
	"code":            true,
	"discount_amount": true,
	"expiry_date":     true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":   true,
	"order_date":   true,
	"total_amount": true,
	"status":       true,
}

// WarrantySortFields contains allowed sort fields for warranties
var WarrantySortFields = map[string]bool{
	"created_at":    true,
	"start_date":    true,
	"end_date":      true,
	"warranty_code": true,
	"status":        true,
}

// ClaimSortFields contains allowed sort fields for warranty claims
var ClaimSortFields = map[string]bool{
	"created_at":   true,
	"submitted_at": true,
	"claim_code":   true,
	"status":       true,
}

// AdminSortFields contains allowed sort fields for admins
var AdminSortFields = map[string]bool{
	"created_at": true,
	"full_name":  true,
	"username":   true,
}

// orderClause builds a whitelisted ORDER BY for the given table
func orderClause(table string, f shared.Filter, allowed map[string]bool, defaultField string) string {
	field := ValidateSortField(f.OrderBy, allowed, defaultField)
	return table + "." + field + " " + ValidateSortOrder(f.OrderDir)
}
