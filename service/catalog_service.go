package service

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"dressup-studio/models"
	"dressup-studio/utils"
)

// DefaultEmptyAsset is the placeholder used when the manifest declares none
const DefaultEmptyAsset = "assets/empty.png"

// iconAliases are the filename fragments searched in the manifest icon list
var iconAliases = map[models.Category][]string{
	models.CategoryEyes:  {"eye", "eyes"},
	models.CategoryMouth: {"mouth", "lip", "lips"},
	models.CategoryHair:  {"hair"},
	models.CategoryHair2: {"hair2", "female"},
	models.CategoryShirt: {"shirt", "top"},
	models.CategoryPants: {"pants", "bottom", "trousers", "skirt"},
	models.CategoryShoes: {"shoe", "shoes", "sneaker", "boots"},
}

var categoryGlyphs = map[models.Category]string{
	models.CategoryBody:  "🧍",
	models.CategoryEyes:  "👀",
	models.CategoryMouth: "👄",
	models.CategoryHair:  "💇",
	models.CategoryHair2: "💇‍♀️",
	models.CategoryShirt: "👕",
	models.CategoryPants: "👖",
	models.CategoryShoes: "👟",
}

var categoryLabels = map[models.Category]string{
	models.CategoryEyes:  "Eyes",
	models.CategoryMouth: "Mouth",
	models.CategoryHair:  "Hair",
	models.CategoryHair2: "Hair (secondary)",
	models.CategoryShirt: "Top",
	models.CategoryPants: "Bottom",
	models.CategoryShoes: "Shoes",
}

// Catalog is the normalized, read-only view of a manifest.
// It is built once at startup and shared by every session.
type Catalog struct {
	manifest      models.Manifest
	order         []models.Category
	lists         map[models.Category][]string
	hairPrimary   []string
	hairSecondary []string
	emptyAsset    string
	refs          map[string]bool
}

// NewCatalog normalizes a manifest into a catalog
func NewCatalog(manifest models.Manifest) *Catalog {
	c := &Catalog{
		manifest: manifest,
		lists:    make(map[models.Category][]string),
		refs:     make(map[string]bool),
	}

	keys := slices.Sorted(maps.Keys(manifest.Parts))

	// Exact keys win over aliases, so they are applied in a second pass
	for _, exact := range []bool{false, true} {
		for _, key := range keys {
			raw := manifest.Parts[key]
			category := utils.CanonicalCategory(key)
			if (key == string(category)) != exact {
				continue
			}
			switch category {
			case models.CategoryHair:
				c.hairPrimary, c.hairSecondary = decodeHairParts(raw)
			case models.CategoryHair2:
				// A flat Hair2 list only fills in for a missing secondary list
				continue
			default:
				c.lists[category] = decodeItemList(raw)
			}
		}
	}

	if len(c.hairSecondary) == 0 {
		for _, key := range keys {
			if utils.CanonicalCategory(key) == models.CategoryHair2 {
				c.hairSecondary = decodeItemList(manifest.Parts[key])
				break
			}
		}
	}

	c.emptyAsset = DefaultEmptyAsset
	for _, key := range []string{"empty", "Empty"} {
		if list := decodeItemList(manifest.Parts[key]); len(list) > 0 && list[0] != "" {
			c.emptyAsset = list[0]
			break
		}
	}
	delete(c.lists, "empty")
	delete(c.lists, "Empty")

	rawOrder := manifest.Order
	if rawOrder == nil {
		rawOrder = utils.FallbackOrder
	}
	c.order = utils.NormalizeCategories(rawOrder, len(c.hairSecondary) > 0)

	for _, list := range c.lists {
		for _, ref := range list {
			c.refs[ref] = true
		}
	}
	for _, ref := range c.hairPrimary {
		c.refs[ref] = true
	}
	for _, ref := range c.hairSecondary {
		c.refs[ref] = true
	}

	return c
}

// decodeItemList decodes a list of asset paths.
// Anything that is not a JSON array yields an empty list; non-string
// elements are dropped.
func decodeItemList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}

	items := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			items = append(items, s)
		}
	}
	return items
}

// decodeHairParts reads parts.Hair. The object form carries male/female or
// primary/secondary sub-lists; a plain list is treated as primary only.
func decodeHairParts(raw json.RawMessage) (primary, secondary []string) {
	if list := decodeItemList(raw); list != nil {
		return list, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil
	}

	pick := func(keys ...string) []string {
		for _, key := range keys {
			if v, ok := fields[key]; ok {
				return decodeItemList(v)
			}
		}
		return nil
	}
	return pick("male", "primary"), pick("female", "secondary")
}

// Manifest returns the manifest the catalog was built from
func (c *Catalog) Manifest() models.Manifest {
	return c.manifest
}

// Order returns the stacking order (bottom to top)
func (c *Catalog) Order() []models.Category {
	return slices.Clone(c.order)
}

// Tabs returns the display order of selectable categories
func (c *Catalog) Tabs() []models.Category {
	tabs := make([]models.Category, 0, len(c.order))
	for _, category := range c.order {
		if category.Selectable() {
			tabs = append(tabs, category)
		}
	}
	return tabs
}

// HasSecondaryHair reports whether the catalog has a second hair list
func (c *Catalog) HasSecondaryHair() bool {
	return len(c.hairSecondary) > 0
}

// HairLists returns the primary and secondary hair sub-lists
func (c *Catalog) HairLists() (primary, secondary []string) {
	return slices.Clone(c.hairPrimary), slices.Clone(c.hairSecondary)
}

// ItemsFor returns the item list for a category.
// Hair depends on the layering mode: the primary or secondary sub-list, or
// both concatenated in dual mode.
func (c *Catalog) ItemsFor(category models.Category, mode models.HairMode) []string {
	switch category {
	case models.CategoryHair:
		switch mode {
		case models.HairModeSecondary:
			return slices.Clone(c.hairSecondary)
		case models.HairModeDual:
			return slices.Concat(c.hairPrimary, c.hairSecondary)
		default:
			return slices.Clone(c.hairPrimary)
		}
	case models.CategoryHair2:
		return slices.Clone(c.hairSecondary)
	}

	if list, ok := c.lists[category]; ok {
		return slices.Clone(list)
	}
	return []string{}
}

// DefaultBody returns the body asset shown for the whole session
func (c *Catalog) DefaultBody() string {
	if list := c.lists[models.CategoryBody]; len(list) > 0 {
		return list[0]
	}
	return ""
}

// Contains reports whether ref appears in any item list
func (c *Catalog) Contains(ref string) bool {
	return c.refs[ref]
}

// Serves reports whether ref is an asset the UI may request: a catalog item,
// a resolved tab icon or the placeholder
func (c *Catalog) Serves(ref string) bool {
	if ref == "" {
		return false
	}
	if c.refs[ref] || ref == c.emptyAsset {
		return true
	}
	for _, category := range c.Tabs() {
		if c.ResolveIcon(category) == ref {
			return true
		}
	}
	return false
}

// EmptyAsset returns the placeholder asset for empty categories
func (c *Catalog) EmptyAsset() string {
	return c.emptyAsset
}

// ResolveIcon finds the tab icon for a category.
// Returns "" when nothing matches; callers show Glyph instead.
func (c *Catalog) ResolveIcon(category models.Category) string {
	if icon := c.manifest.IconsMap[string(category)]; icon != "" {
		return icon
	}
	lower := strings.ToLower(string(category))
	if icon := c.manifest.IconsMap[lower]; icon != "" {
		return icon
	}

	aliases, ok := iconAliases[category]
	if !ok {
		aliases = []string{lower}
	}
	for _, src := range c.manifest.Icon {
		name := strings.ToLower(src)
		for _, alias := range aliases {
			if strings.Contains(name, alias) {
				return src
			}
		}
	}
	return ""
}

// Glyph returns the symbolic fallback icon for a category
func (c *Catalog) Glyph(category models.Category) string {
	if glyph, ok := categoryGlyphs[category]; ok {
		return glyph
	}
	return "🔹"
}

// Label returns the tab label for a category
func (c *Catalog) Label(category models.Category) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return string(category)
}
