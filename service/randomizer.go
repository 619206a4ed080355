package service

import (
	"math/rand/v2"
	"sync"

	"dressup-studio/models"
)

// Randomizer draws uniformly random picks for every selectable category
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizer creates a randomizer. A nil source seeds from the runtime.
func NewRandomizer(src rand.Source) *Randomizer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Randomizer{rng: rand.New(src)}
}

// NewSeededRandomizer creates a randomizer with a fixed seed
func NewSeededRandomizer(seed uint64) *Randomizer {
	return NewRandomizer(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// pick returns a uniformly random element, or "" for an empty list
func (r *Randomizer) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return items[r.rng.IntN(len(items))]
}

// RandomizeAll replaces the pick of every tab category (Body excluded) with a
// random item; empty lists clear the category. In dual hair mode the two hair
// slots are drawn independently from the primary and secondary sub-lists.
// The stage is rendered once afterwards.
func (r *Randomizer) RandomizeAll(session *Session) {
	catalog := session.catalog

	session.mutate(func(st *sessionState) []func(RenderSinkInterface) {
		sel := &st.selection

		for _, category := range catalog.Tabs() {
			if category != models.CategoryHair {
				sel.Items[category] = r.pick(catalog.ItemsFor(category, st.mode))
				continue
			}

			if st.mode == models.HairModeDual {
				primary, secondary := catalog.HairLists()
				sel.Items[models.CategoryHair] = r.pick(primary)
				sel.HairSecondary = r.pick(secondary)
			} else {
				sel.Items[models.CategoryHair] = r.pick(catalog.ItemsFor(models.CategoryHair, st.mode))
				sel.HairSecondary = ""
			}
		}

		return []func(RenderSinkInterface){session.stageEvent(*sel)}
	})
}
