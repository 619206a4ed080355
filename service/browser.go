package service

import (
	"slices"

	"dressup-studio/models"
	"dressup-studio/utils"
)

// PageSize is the number of item tiles per grid page.
// The none tile is shown on every page and is not counted.
const PageSize = 8

// TotalPages returns the page count for n items (at least 1)
func TotalPages(n int) int {
	return max(1, (n+PageSize-1)/PageSize)
}

// clampCursor clamps a category's page cursor to the current list length.
// Cursors are created lazily: an absent cursor is page 0 and stays absent.
func clampCursor(st *sessionState, catalog *Catalog, category models.Category) int {
	page, ok := st.pages[category]
	last := TotalPages(len(catalog.ItemsFor(category, st.mode))) - 1
	page = min(max(page, 0), last)
	if ok {
		st.pages[category] = page
	}
	return page
}

// Browser pages through a session's catalog for the picker grid.
// It never changes the selection itself; tile activation goes through
// Session.Select.
type Browser struct {
	session *Session
}

// NewBrowser creates a browser over a session
func NewBrowser(session *Session) *Browser {
	return &Browser{session: session}
}

// Page returns the current page of a category's items
func (b *Browser) Page(category models.Category) models.GridPage {
	var page models.GridPage
	b.session.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		page = b.build(st, category, clampCursor(st, b.session.catalog, category))
		return nil
	})
	return page
}

// PageAt moves a category's cursor to index, clamped to the valid range,
// and returns that page. Categories without a tab keep no cursor.
func (b *Browser) PageAt(category models.Category, index int) models.GridPage {
	tab := slices.Contains(b.session.catalog.Tabs(), category)
	var page models.GridPage
	b.session.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		if tab {
			st.pages[category] = index
		}
		page = b.build(st, category, clampCursor(st, b.session.catalog, category))
		return nil
	})
	return page
}

// Next moves the active category one page forward; no-op on the last page
func (b *Browser) Next() {
	b.step(1)
}

// Prev moves the active category one page back; no-op on the first page
func (b *Browser) Prev() {
	b.step(-1)
}

func (b *Browser) step(delta int) {
	b.session.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		category := st.active
		current := clampCursor(st, b.session.catalog, category)
		last := TotalPages(len(b.session.catalog.ItemsFor(category, st.mode))) - 1
		next := min(max(current+delta, 0), last)
		if next != current {
			st.pages[category] = next
		}
		return nil
	})
}

// Activate selects the item at absolute list index for a category.
// Returns false when the index is out of range.
func (b *Browser) Activate(category models.Category, index int) bool {
	items := b.session.catalog.ItemsFor(category, b.session.LayeringMode())
	if index < 0 || index >= len(items) {
		return false
	}
	b.session.Select(category, items[index])
	return true
}

// ActivateNone is the none tile: it clears the category
func (b *Browser) ActivateNone(category models.Category) {
	b.session.Select(category, "")
}

// build assembles a page from locked state
func (b *Browser) build(st *sessionState, category models.Category, pageIndex int) models.GridPage {
	items := b.session.catalog.ItemsFor(category, st.mode)
	total := TotalPages(len(items))

	start := min(pageIndex*PageSize, len(items))
	end := min(start+PageSize, len(items))

	page := models.GridPage{
		Category:   category,
		Items:      make([]models.Tile, 0, end-start),
		PageIndex:  pageIndex,
		TotalPages: total,
		HasPrev:    pageIndex > 0,
		HasNext:    pageIndex < total-1,
	}

	for i := start; i < end; i++ {
		page.Items = append(page.Items, models.Tile{
			Index:    i,
			Src:      items[i],
			URI:      utils.EncodeAssetURI(items[i]),
			Selected: isSelected(st, category, items[i]),
		})
	}
	return page
}

// isSelected reports whether ref is a current pick of category.
// In dual hair mode both hair slots count.
func isSelected(st *sessionState, category models.Category, ref string) bool {
	if ref == "" {
		return false
	}
	if category == models.CategoryHair && st.mode == models.HairModeDual {
		return ref == st.selection.Items[models.CategoryHair] || ref == st.selection.HairSecondary
	}
	return ref == st.selection.Get(category)
}
