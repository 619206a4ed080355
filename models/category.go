package models

import "strings"

// Category is a canonical body-part slot name (e.g. "Eyes", "Hair").
type Category string

const (
	CategoryBody  Category = "Body"
	CategoryEyes  Category = "Eyes"
	CategoryMouth Category = "Mouth"
	CategoryHair  Category = "Hair"
	CategoryHair2 Category = "Hair2" // secondary hair layer
	CategoryShirt Category = "Shirt"
	CategoryPants Category = "Pants"
	CategoryShoes Category = "Shoes"
)

// LayerID returns the stable stage layer identifier for the category
func (c Category) LayerID() string {
	return "layer-" + strings.ToLower(string(c))
}

// Selectable reports whether the category gets its own tab.
// Body is fixed at startup and Hair2 is driven by the Hair tab.
func (c Category) Selectable() bool {
	return c != CategoryBody && c != CategoryHair2
}

// HairMode is the layering mode of the Hair category
type HairMode string

const (
	HairModePrimary   HairMode = "primary"
	HairModeSecondary HairMode = "secondary"
	HairModeDual      HairMode = "dual"
)

// HairModes lists the modes in the order the filter control shows them
var HairModes = []HairMode{HairModePrimary, HairModeSecondary, HairModeDual}

// Valid reports whether m is one of the known modes
func (m HairMode) Valid() bool {
	switch m {
	case HairModePrimary, HairModeSecondary, HairModeDual:
		return true
	}
	return false
}
