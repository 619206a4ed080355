package models

import "encoding/json"

// Manifest is the catalog document describing categories and their assets.
// Parts values stay raw because their shape differs per key: most are lists
// of asset paths, Hair is an object holding two named sub-lists.
type Manifest struct {
	Order    []string                   `json:"order,omitempty"`
	Parts    map[string]json.RawMessage `json:"parts,omitempty"`
	Icon     []string                   `json:"icon,omitempty"`
	IconsMap map[string]string          `json:"iconsMap,omitempty"`
}

// HairParts is the object stored under parts.Hair
type HairParts struct {
	Male      []string `json:"male,omitempty"`
	Female    []string `json:"female,omitempty"`
	Primary   []string `json:"primary,omitempty"`
	Secondary []string `json:"secondary,omitempty"`
}
