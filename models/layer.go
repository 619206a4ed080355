package models

// Layer is one stacked image on the stage
type Layer struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	// Src is the raw asset reference, empty when nothing is drawn
	Src string `json:"src"`
	// URI is Src percent-encoded for retrieval
	URI         string `json:"uri"`
	Placeholder bool   `json:"placeholder"`
}

// Visible reports whether the layer has an image to draw
func (l Layer) Visible() bool {
	return l.Src != ""
}
