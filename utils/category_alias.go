package utils

import (
	"strings"

	"dressup-studio/models"
)

// categoryAliases maps lower-cased category tokens to canonical categories
var categoryAliases = map[string]models.Category{
	"body":   models.CategoryBody,
	"eyes":   models.CategoryEyes,
	"mouth":  models.CategoryMouth,
	"hair":   models.CategoryHair,
	"hair2":  models.CategoryHair2,
	"top":    models.CategoryShirt,
	"shirt":  models.CategoryShirt,
	"bottom": models.CategoryPants,
	"pants":  models.CategoryPants,
	"shoes":  models.CategoryShoes,
}

// FallbackOrder is the category order used when the manifest has none
var FallbackOrder = []string{"Body", "Eyes", "Mouth", "Hair", "Shirt", "Pants", "Shoes"}

// CanonicalCategory maps a raw category token to its canonical category.
// Input is normalized to lowercase before mapping.
// Unknown tokens are returned unchanged.
func CanonicalCategory(raw string) models.Category {
	key := strings.ToLower(strings.TrimSpace(raw))

	if category, exists := categoryAliases[key]; exists {
		return category
	}

	return models.Category(raw)
}

// NormalizeCategories canonicalizes a raw category order, keeping the first
// occurrence of every category. When the catalog has secondary hair items
// and Hair2 is missing, Hair2 is inserted right after Hair (or appended).
func NormalizeCategories(raw []string, hasSecondaryHair bool) []models.Category {
	order := make([]models.Category, 0, len(raw)+1)
	seen := make(map[models.Category]bool, len(raw)+1)

	for _, token := range raw {
		category := CanonicalCategory(token)
		if seen[category] {
			continue
		}
		seen[category] = true
		order = append(order, category)
	}

	if !hasSecondaryHair || seen[models.CategoryHair2] {
		return order
	}

	for i, category := range order {
		if category == models.CategoryHair {
			order = append(order, "")
			copy(order[i+2:], order[i+1:])
			order[i+1] = models.CategoryHair2
			return order
		}
	}
	return append(order, models.CategoryHair2)
}

// CategoryStrings converts categories back to raw tokens
func CategoryStrings(categories []models.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}
