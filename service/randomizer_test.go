package service

import (
	"slices"
	"testing"

	"dressup-studio/models"
)

func TestRandomizeAll(t *testing.T) {
	session, sink := newTestSession(t)
	randomizer := NewSeededRandomizer(42)
	catalog := session.Catalog()

	for round := range 25 {
		sink.reset()
		randomizer.RandomizeAll(session)

		if layers, stages := sink.counts(); layers != 0 || stages != 1 {
			t.Fatalf("round %d: events = %d / %d, want 0 / 1", round, layers, stages)
		}

		sel := session.Selection()
		if got := sel.Get(models.CategoryBody); got != "body/base.png" {
			t.Fatalf("round %d: Body = %q, randomize must not touch it", round, got)
		}
		if sel.HairSecondary != "" {
			t.Errorf("round %d: HairSecondary = %q outside dual mode", round, sel.HairSecondary)
		}

		for _, category := range catalog.Tabs() {
			items := catalog.ItemsFor(category, models.HairModePrimary)
			got := sel.Get(category)
			if len(items) == 0 {
				if got != "" {
					t.Errorf("round %d: %s = %q, want empty for empty list", round, category, got)
				}
				continue
			}
			if !slices.Contains(items, got) {
				t.Errorf("round %d: %s = %q, not in its list", round, category, got)
			}
		}
	}
}

func TestRandomizeAllDualHair(t *testing.T) {
	session, sink := newTestSession(t)
	session.SetLayeringMode(models.HairModeDual)
	primary, secondary := session.Catalog().HairLists()
	randomizer := NewSeededRandomizer(3)

	seenPrimary := make(map[string]bool)
	for round := range 40 {
		sink.reset()
		randomizer.RandomizeAll(session)

		sel := session.Selection()
		if !slices.Contains(primary, sel.Get(models.CategoryHair)) {
			t.Errorf("round %d: primary %q not drawn from the primary list", round, sel.Get(models.CategoryHair))
		}
		if !slices.Contains(secondary, sel.HairSecondary) {
			t.Errorf("round %d: secondary %q not drawn from the secondary list", round, sel.HairSecondary)
		}
		if layers, stages := sink.counts(); layers != 0 || stages != 1 {
			t.Errorf("round %d: events = %d / %d, want 0 / 1", round, layers, stages)
		}
		seenPrimary[sel.Get(models.CategoryHair)] = true
	}

	if len(seenPrimary) != len(primary) {
		t.Errorf("drew %d distinct primary styles in 40 rounds, want %d", len(seenPrimary), len(primary))
	}
}

func TestRandomizerSeedIsDeterministic(t *testing.T) {
	a, _ := newTestSession(t)
	b, _ := newTestSession(t)

	NewSeededRandomizer(99).RandomizeAll(a)
	NewSeededRandomizer(99).RandomizeAll(b)

	if got, want := mustJSON(t, a.Selection()), mustJSON(t, b.Selection()); got != want {
		t.Errorf("same seed gave different selections:\n%s\n%s", got, want)
	}
}
