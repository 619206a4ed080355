package models

// Tile is one selectable item in the picker grid
type Tile struct {
	Index    int    `json:"index"`
	Src      string `json:"src"`
	URI      string `json:"uri"`
	Selected bool   `json:"selected"`
}

// GridPage is one page of a category's items.
// The none tile is implicit on every page and is not part of Items.
type GridPage struct {
	Category   Category `json:"category"`
	Items      []Tile   `json:"items"`
	PageIndex  int      `json:"pageIndex"`
	TotalPages int      `json:"totalPages"`
	HasPrev    bool     `json:"hasPrev"`
	HasNext    bool     `json:"hasNext"`
}

// Tab is one category button in the tab bar
type Tab struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`    // asset path, empty when Glyph should be shown
	IconURI  string   `json:"iconUri"` // percent-encoded Icon
	Glyph    string   `json:"glyph"`
	Active   bool     `json:"active"`
}

// StageState is the full view of a session sent to presentation surfaces
type StageState struct {
	Layers   []Layer  `json:"layers"`
	Tabs     []Tab    `json:"tabs"`
	Page     GridPage `json:"page"`
	HairMode HairMode `json:"hairMode"`
	DualHair bool     `json:"dualHair"` // true when the catalog has secondary hair
}
