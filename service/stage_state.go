package service

import (
	"dressup-studio/models"
	"dressup-studio/utils"
)

// Tabs returns the tab bar of the session's catalog with the active tab marked
func (b *Browser) Tabs() []models.Tab {
	catalog := b.session.catalog
	active := b.session.ActiveCategory()

	categories := catalog.Tabs()
	tabs := make([]models.Tab, 0, len(categories))
	for _, category := range categories {
		icon := catalog.ResolveIcon(category)
		tabs = append(tabs, models.Tab{
			Category: category,
			Label:    catalog.Label(category),
			Icon:     icon,
			IconURI:  utils.EncodeAssetURI(icon),
			Glyph:    catalog.Glyph(category),
			Active:   category == active,
		})
	}
	return tabs
}

// State returns everything a surface needs to draw the customizer:
// the layer stack, the tab bar and the active category's current page
func (b *Browser) State() models.StageState {
	return models.StageState{
		Layers:   b.session.Layers(),
		Tabs:     b.Tabs(),
		Page:     b.Page(b.session.ActiveCategory()),
		HairMode: b.session.LayeringMode(),
		DualHair: b.session.catalog.HasSecondaryHair(),
	}
}
