package service

import (
	"testing"

	"dressup-studio/models"
)

func newTestSession(t *testing.T) (*Session, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	session := NewSession(catalogFromJSON(t, fullCatalogDoc), sink, LayerPolicy{ShowPlaceholder: true})
	return session, sink
}

func TestNewSession(t *testing.T) {
	session, sink := newTestSession(t)

	sel := session.Selection()
	if got := sel.Get(models.CategoryBody); got != "body/base.png" {
		t.Errorf("Body = %q, want body/base.png", got)
	}
	if got := session.ActiveCategory(); got != models.CategoryEyes {
		t.Errorf("ActiveCategory() = %s, want Eyes", got)
	}
	if got := session.LayeringMode(); got != models.HairModePrimary {
		t.Errorf("LayeringMode() = %s, want primary", got)
	}
	if layers, stages := sink.counts(); layers != 0 || stages != 1 {
		t.Errorf("events = %d layer / %d stage, want 0 / 1", layers, stages)
	}
}

func TestSelectBodyIsIgnored(t *testing.T) {
	session, sink := newTestSession(t)
	sink.reset()

	session.Select(models.CategoryBody, "body/alt.png")
	session.Clear(models.CategoryBody)

	if got := session.Selection().Get(models.CategoryBody); got != "body/base.png" {
		t.Errorf("Body = %q, want body/base.png", got)
	}
	if layers, stages := sink.counts(); layers != 0 || stages != 0 {
		t.Errorf("events = %d / %d, want none", layers, stages)
	}
}

func TestSelectSingleSlot(t *testing.T) {
	session, sink := newTestSession(t)
	sink.reset()

	session.Select(models.CategoryEyes, "eyes/02.png")
	session.Select(models.CategoryEyes, "eyes/05.png")

	if got := session.Selection().Get(models.CategoryEyes); got != "eyes/05.png" {
		t.Errorf("Eyes = %q, want eyes/05.png", got)
	}
	if len(sink.layers) != 2 {
		t.Fatalf("got %d layer events, want 2", len(sink.layers))
	}
	last := sink.layers[1]
	if last.ID != "layer-eyes" || last.Src != "eyes/05.png" || last.Placeholder {
		t.Errorf("last event = %+v", last)
	}

	session.Clear(models.CategoryEyes)
	cleared := sink.layers[len(sink.layers)-1]
	if !cleared.Placeholder || cleared.Src != DefaultEmptyAsset {
		t.Errorf("cleared layer = %+v, want placeholder", cleared)
	}
}

func TestSelectHairNonDualOverwrites(t *testing.T) {
	session, _ := newTestSession(t)

	session.Select(models.CategoryHair, "hair/m1.png")
	session.Select(models.CategoryHair, "hair/m2.png")

	sel := session.Selection()
	if sel.Get(models.CategoryHair) != "hair/m2.png" || sel.HairSecondary != "" {
		t.Errorf("selection = %+v, want primary m2 and no secondary", sel)
	}

	// Hair2 is not addressable outside dual mode
	session.Select(models.CategoryHair2, "hair/f1.png")
	if got := session.Selection().HairSecondary; got != "" {
		t.Errorf("HairSecondary = %q, want empty", got)
	}
}

func TestDualHairRotation(t *testing.T) {
	session, sink := newTestSession(t)
	session.SetLayeringMode(models.HairModeDual)

	steps := []struct {
		pick          string
		wantPrimary   string
		wantSecondary string
		wantEvents    int
	}{
		{"A", "A", "", 1},
		{"B", "A", "B", 1},
		{"C", "B", "C", 2},
		{"D", "C", "D", 2},
	}

	for _, step := range steps {
		sink.reset()
		session.Select(models.CategoryHair, step.pick)

		sel := session.Selection()
		if sel.Get(models.CategoryHair) != step.wantPrimary || sel.Get(models.CategoryHair2) != step.wantSecondary {
			t.Errorf("after %s: primary=%q secondary=%q, want %q %q",
				step.pick, sel.Get(models.CategoryHair), sel.Get(models.CategoryHair2), step.wantPrimary, step.wantSecondary)
		}
		if layers, _ := sink.counts(); layers != step.wantEvents {
			t.Errorf("after %s: %d layer events, want %d", step.pick, layers, step.wantEvents)
		}
	}
}

func TestClearHairClearsBothSlots(t *testing.T) {
	session, sink := newTestSession(t)
	session.SetLayeringMode(models.HairModeDual)
	session.Select(models.CategoryHair, "hair/m1.png")
	session.Select(models.CategoryHair, "hair/f1.png")
	sink.reset()

	session.Clear(models.CategoryHair)

	sel := session.Selection()
	if sel.Get(models.CategoryHair) != "" || sel.HairSecondary != "" {
		t.Errorf("selection after clear = %+v", sel)
	}
	if layers, _ := sink.counts(); layers != 2 {
		t.Errorf("%d layer events, want 2", layers)
	}
}

func TestSetLayeringMode(t *testing.T) {
	session, sink := newTestSession(t)
	session.SetLayeringMode(models.HairModeDual)
	session.Select(models.CategoryHair, "hair/m1.png")
	session.Select(models.CategoryHair, "hair/f2.png")
	sink.reset()

	session.SetLayeringMode(models.HairModeSecondary)

	sel := session.Selection()
	if sel.HairSecondary != "" {
		t.Errorf("HairSecondary = %q, want empty after leaving dual", sel.HairSecondary)
	}
	if sel.Get(models.CategoryHair) != "hair/m1.png" {
		t.Errorf("primary = %q, want hair/m1.png kept", sel.Get(models.CategoryHair))
	}
	if len(sink.layers) != 1 || sink.layers[0].ID != "layer-hair2" {
		t.Errorf("events = %+v, want one hair2 update", sink.layers)
	}

	sink.reset()
	session.SetLayeringMode(models.HairModeSecondary)
	session.SetLayeringMode(models.HairMode("braids"))
	if got := session.LayeringMode(); got != models.HairModeSecondary {
		t.Errorf("LayeringMode() = %s, want secondary", got)
	}
	if layers, stages := sink.counts(); layers != 0 || stages != 0 {
		t.Errorf("no-op mode changes emitted %d / %d events", layers, stages)
	}

	// Entering dual keeps primary and leaves secondary empty
	session.SetLayeringMode(models.HairModeDual)
	sel = session.Selection()
	if sel.Get(models.CategoryHair) != "hair/m1.png" || sel.HairSecondary != "" {
		t.Errorf("selection after entering dual = %+v", sel)
	}
}

func TestReset(t *testing.T) {
	session, sink := newTestSession(t)
	session.Select(models.CategoryEyes, "eyes/01.png")
	session.Select(models.CategoryShoes, "shoes/boots.png")
	session.SetLayeringMode(models.HairModeDual)
	session.Select(models.CategoryHair, "hair/m1.png")
	session.Select(models.CategoryHair, "hair/f1.png")
	sink.reset()

	session.Reset()

	sel := session.Selection()
	if got := sel.Get(models.CategoryBody); got != "body/base.png" {
		t.Errorf("Body = %q, want body/base.png", got)
	}
	for _, category := range session.Catalog().Order() {
		if category == models.CategoryBody {
			continue
		}
		if got := sel.Get(category); got != "" {
			t.Errorf("%s = %q, want empty", category, got)
		}
	}

	if layers, stages := sink.counts(); layers != 0 || stages != 1 {
		t.Fatalf("events = %d / %d, want 0 / 1", layers, stages)
	}
	for _, layer := range sink.stages[0] {
		if layer.Category == models.CategoryBody {
			continue
		}
		if !layer.Placeholder {
			t.Errorf("layer %s = %+v, want placeholder", layer.ID, layer)
		}
	}
}

func TestSelectUnknownCategory(t *testing.T) {
	session, sink := newTestSession(t)
	sink.reset()

	session.Select(models.Category("Hat"), "hat.png")

	if _, ok := session.Selection().Items["Hat"]; ok {
		t.Error("unknown category was stored")
	}
	if layers, _ := sink.counts(); layers != 0 {
		t.Errorf("%d layer events, want 0", layers)
	}
}

func TestSetActiveCategory(t *testing.T) {
	session, _ := newTestSession(t)
	browser := NewBrowser(session)

	browser.PageAt(models.CategoryEyes, 2)
	session.SetActiveCategory(models.CategoryMouth)
	session.SetActiveCategory(models.CategoryEyes)

	if got := browser.Page(models.CategoryEyes).PageIndex; got != 0 {
		t.Errorf("PageIndex = %d, want 0 after re-activating tab", got)
	}

	session.SetActiveCategory(models.CategoryBody)
	if got := session.ActiveCategory(); got != models.CategoryEyes {
		t.Errorf("ActiveCategory() = %s, want Eyes (Body has no tab)", got)
	}
}
