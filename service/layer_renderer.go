package service

import (
	"log"
	"slices"

	"dressup-studio/models"
	"dressup-studio/utils"
)

// LayerPolicy controls how empty categories are drawn
type LayerPolicy struct {
	// ShowPlaceholder draws the catalog's empty asset for empty categories
	ShowPlaceholder bool
}

// LayerRenderer maps a selection to the stacked layers in draw order.
// It never mutates the selection.
type LayerRenderer struct {
	catalog *Catalog
	policy  LayerPolicy
	order   []models.Category
}

// NewLayerRenderer creates a renderer for a catalog
func NewLayerRenderer(catalog *Catalog, policy LayerPolicy) *LayerRenderer {
	order := catalog.Order()
	// The secondary hair layer always exists, on top when the order lacks it
	if !slices.Contains(order, models.CategoryHair2) {
		order = append(order, models.CategoryHair2)
	}
	return &LayerRenderer{catalog: catalog, policy: policy, order: order}
}

// StackingOrder returns the layer categories bottom to top
func (r *LayerRenderer) StackingOrder() []models.Category {
	return slices.Clone(r.order)
}

// Materialize returns one layer per category in stacking order.
// Calling it twice with the same selection yields the same layers.
func (r *LayerRenderer) Materialize(sel Selection) []models.Layer {
	layers := make([]models.Layer, 0, len(r.order))
	for _, category := range r.order {
		layers = append(layers, r.Layer(category, sel))
	}
	return layers
}

// Layer resolves the displayed source of one category
func (r *LayerRenderer) Layer(category models.Category, sel Selection) models.Layer {
	layer := models.Layer{
		ID:       category.LayerID(),
		Category: category,
		Src:      sel.Get(category),
	}

	if layer.Src == "" && r.policy.ShowPlaceholder && category != models.CategoryBody {
		layer.Src = r.catalog.EmptyAsset()
		layer.Placeholder = true
	}

	layer.URI = utils.EncodeAssetURI(layer.Src)
	return layer
}

// LogSink writes render events to the log
type LogSink struct {
	Prefix string
}

// LayerUpdated implements RenderSinkInterface
func (s LogSink) LayerUpdated(layer models.Layer) {
	if layer.Placeholder {
		log.Printf("%s🧩 %s -> placeholder", s.Prefix, layer.ID)
		return
	}
	log.Printf("%s🧩 %s -> %q", s.Prefix, layer.ID, layer.Src)
}

// StageRendered implements RenderSinkInterface
func (s LogSink) StageRendered(layers []models.Layer) {
	visible := 0
	for _, layer := range layers {
		if layer.Visible() && !layer.Placeholder {
			visible++
		}
	}
	log.Printf("%s🎨 Stage rendered: %d layers, %d with a pick", s.Prefix, len(layers), visible)
}

// NopSink discards render events
type NopSink struct{}

// LayerUpdated implements RenderSinkInterface
func (NopSink) LayerUpdated(models.Layer) {}

// StageRendered implements RenderSinkInterface
func (NopSink) StageRendered([]models.Layer) {}
