package handlers

import (
	"fmt"
	"strings"

	"backend/internal/models"
)

func validateProductFields(name, category string, newPrice, oldPrice float64, stock int, sizes []string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	if !models.ValidCategory(category) {
		return fmt.Errorf("invalid category, must be one of: primary, secondary, sixth")
	}
	if newPrice < 0 {
		return fmt.Errorf("new_price must not be negative")
	}
	if oldPrice < 0 {
		return fmt.Errorf("old_price must not be negative")
	}
	if stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	for _, size := range sizes {
		if !models.ValidSize(strings.ToUpper(strings.TrimSpace(size))) {
			return fmt.Errorf("invalid size: %s", size)
		}
	}
	return nil
}

func normalizeSizes(values []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))

	for _, v := range values {
		size := strings.ToUpper(strings.TrimSpace(v))
		if size == "" {
			continue
		}
		if _, ok := seen[size]; ok {
			continue
		}
		seen[size] = struct{}{}
		out = append(out, size)
	}
	return out
}
