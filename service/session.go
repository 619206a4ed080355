package service

import (
	"log"
	"maps"
	"slices"
	"sync"

	"dressup-studio/models"
)

// RenderSinkInterface receives layer changes from a session.
// Implementations may read the session but must not mutate it.
type RenderSinkInterface interface {
	// LayerUpdated is called once for every layer a pick or clear touched
	LayerUpdated(layer models.Layer)
	// StageRendered is called with the full layer stack after bulk changes
	StageRendered(layers []models.Layer)
}

// Selection is a snapshot of the current picks.
// Hair holds the primary hair slot; HairSecondary is only used in dual mode.
type Selection struct {
	Items         map[models.Category]string `json:"items"`
	HairSecondary string                     `json:"hairSecondary"`
}

// Get returns the pick for a category ("" when empty)
func (s Selection) Get(category models.Category) string {
	if category == models.CategoryHair2 {
		return s.HairSecondary
	}
	return s.Items[category]
}

// Clone returns a deep copy of the selection
func (s Selection) Clone() Selection {
	return Selection{Items: maps.Clone(s.Items), HairSecondary: s.HairSecondary}
}

// sessionState is the mutable part of a session, guarded by Session.mu
type sessionState struct {
	selection Selection
	active    models.Category
	pages     map[models.Category]int
	mode      models.HairMode
}

// Session holds one user's selection, active tab, pagination cursors and
// hair layering mode. Mutations run one at a time and to completion.
type Session struct {
	opMu sync.Mutex // serializes mutations including their sink events
	mu   sync.Mutex // guards state

	catalog  *Catalog
	renderer *LayerRenderer
	sink     RenderSinkInterface
	state    sessionState
}

// NewSession creates a session with body set to the catalog's first body
// item, the first tab active and hair in primary mode.
// The initial stage is rendered once.
func NewSession(catalog *Catalog, sink RenderSinkInterface, policy LayerPolicy) *Session {
	if sink == nil {
		sink = NopSink{}
	}

	s := &Session{
		catalog:  catalog,
		renderer: NewLayerRenderer(catalog, policy),
		sink:     sink,
		state: sessionState{
			selection: Selection{Items: make(map[models.Category]string)},
			active:    models.CategoryEyes,
			pages:     make(map[models.Category]int),
			mode:      models.HairModePrimary,
		},
	}

	s.state.selection.Items[models.CategoryBody] = catalog.DefaultBody()
	if tabs := catalog.Tabs(); len(tabs) > 0 {
		s.state.active = tabs[0]
	}

	s.sink.StageRendered(s.renderer.Materialize(s.state.selection))
	return s
}

// Catalog returns the catalog the session browses
func (s *Session) Catalog() *Catalog {
	return s.catalog
}

// Renderer returns the session's layer renderer
func (s *Session) Renderer() *LayerRenderer {
	return s.renderer
}

// Selection returns a snapshot of the current picks
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.selection.Clone()
}

// ActiveCategory returns the category whose tab is active
func (s *Session) ActiveCategory() models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.active
}

// LayeringMode returns the current hair layering mode
func (s *Session) LayeringMode() models.HairMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.mode
}

// Layers materializes the current layer stack
func (s *Session) Layers() []models.Layer {
	return s.renderer.Materialize(s.Selection())
}

// mutate runs fn against the state under both locks and then delivers the
// events fn produced, so sinks never run while state is locked.
func (s *Session) mutate(fn func(st *sessionState) []func(RenderSinkInterface)) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	events := fn(&s.state)
	s.mu.Unlock()

	for _, event := range events {
		event(s.sink)
	}
}

func (s *Session) layerEvent(category models.Category, sel Selection) func(RenderSinkInterface) {
	layer := s.renderer.Layer(category, sel)
	return func(sink RenderSinkInterface) { sink.LayerUpdated(layer) }
}

func (s *Session) stageEvent(sel Selection) func(RenderSinkInterface) {
	layers := s.renderer.Materialize(sel)
	return func(sink RenderSinkInterface) { sink.StageRendered(layers) }
}

// hasLayer reports whether category is part of the stage
func (s *Session) hasLayer(category models.Category) bool {
	return category == models.CategoryHair2 || slices.Contains(s.catalog.Order(), category)
}

// Select picks ref for a category; "" clears it.
// Body is never changed. In dual hair mode picks fill the primary slot, then
// the secondary slot, then evict the oldest: secondary moves to primary and
// the new pick becomes secondary.
func (s *Session) Select(category models.Category, ref string) {
	if category == models.CategoryBody {
		return
	}
	if !s.hasLayer(category) {
		log.Printf("⚠️  Select ignored for unknown category %q", category)
		return
	}

	s.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		sel := &st.selection

		switch {
		case category == models.CategoryHair2:
			// The secondary layer is only addressable in dual mode
			if st.mode != models.HairModeDual {
				return nil
			}
			sel.HairSecondary = ref
			return []func(RenderSinkInterface){s.layerEvent(models.CategoryHair2, *sel)}

		case category == models.CategoryHair && ref == "":
			sel.Items[models.CategoryHair] = ""
			sel.HairSecondary = ""
			return []func(RenderSinkInterface){
				s.layerEvent(models.CategoryHair, *sel),
				s.layerEvent(models.CategoryHair2, *sel),
			}

		case category == models.CategoryHair && st.mode == models.HairModeDual:
			switch {
			case sel.Items[models.CategoryHair] == "":
				sel.Items[models.CategoryHair] = ref
				return []func(RenderSinkInterface){s.layerEvent(models.CategoryHair, *sel)}
			case sel.HairSecondary == "":
				sel.HairSecondary = ref
				return []func(RenderSinkInterface){s.layerEvent(models.CategoryHair2, *sel)}
			default:
				sel.Items[models.CategoryHair] = sel.HairSecondary
				sel.HairSecondary = ref
				return []func(RenderSinkInterface){
					s.layerEvent(models.CategoryHair, *sel),
					s.layerEvent(models.CategoryHair2, *sel),
				}
			}

		default:
			sel.Items[category] = ref
			return []func(RenderSinkInterface){s.layerEvent(category, *sel)}
		}
	})
}

// Clear empties a category. For Hair both slots are cleared.
func (s *Session) Clear(category models.Category) {
	s.Select(category, "")
}

// SetLayeringMode changes the hair layering mode.
// Leaving dual mode clears the secondary slot; the hair page cursor is
// clamped to the new list length.
func (s *Session) SetLayeringMode(mode models.HairMode) {
	if !mode.Valid() {
		log.Printf("⚠️  Ignoring unknown hair mode %q", mode)
		return
	}

	s.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		if st.mode == mode {
			return nil
		}
		previous := st.mode
		st.mode = mode
		clampCursor(st, s.catalog, models.CategoryHair)

		if previous == models.HairModeDual && st.selection.HairSecondary != "" {
			st.selection.HairSecondary = ""
			return []func(RenderSinkInterface){s.layerEvent(models.CategoryHair2, st.selection)}
		}
		return nil
	})
}

// Reset keeps the body and clears every other category
func (s *Session) Reset() {
	s.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		body := st.selection.Items[models.CategoryBody]
		st.selection = Selection{Items: map[models.Category]string{models.CategoryBody: body}}
		return []func(RenderSinkInterface){s.stageEvent(st.selection)}
	})
}

// SetActiveCategory switches the active tab and rewinds its page.
// Categories without a tab are ignored.
func (s *Session) SetActiveCategory(category models.Category) {
	if !slices.Contains(s.catalog.Tabs(), category) {
		return
	}

	s.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		st.active = category
		st.pages[category] = 0
		return nil
	})
}
