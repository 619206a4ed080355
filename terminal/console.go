package terminal

import (
	"slices"

	"dressup-studio/models"
	"dressup-studio/service"
)

// Console applies decoded keys to one customizer session
type Console struct {
	session    *service.Session
	browser    *service.Browser
	randomizer *service.Randomizer
}

// NewConsole creates a console over a session
func NewConsole(session *service.Session, randomizer *service.Randomizer) *Console {
	return &Console{
		session:    session,
		browser:    service.NewBrowser(session),
		randomizer: randomizer,
	}
}

// Browser returns the console's catalog browser
func (c *Console) Browser() *service.Browser {
	return c.browser
}

// Apply runs one key against the session.
// Returns false when the key asks to quit.
func (c *Console) Apply(key Key) bool {
	active := c.session.ActiveCategory()

	switch key.Action {
	case ActionTabPrev:
		c.stepTab(-1)
	case ActionTabNext:
		c.stepTab(1)
	case ActionPagePrev:
		c.browser.Prev()
	case ActionPageNext:
		c.browser.Next()
	case ActionPickNone:
		c.browser.ActivateNone(active)
	case ActionPick:
		page := c.browser.Page(active)
		if key.Slot >= 1 && key.Slot <= len(page.Items) {
			c.browser.Activate(active, page.Items[key.Slot-1].Index)
		}
	case ActionRandomize:
		c.randomizer.RandomizeAll(c.session)
	case ActionReset:
		c.session.Reset()
	case ActionClear:
		c.session.Clear(active)
	case ActionCycleMode:
		modes := models.HairModes
		next := (slices.Index(modes, c.session.LayeringMode()) + 1) % len(modes)
		c.session.SetLayeringMode(modes[next])
	case ActionQuit:
		return false
	}
	return true
}

// stepTab moves the active tab, wrapping around at both ends
func (c *Console) stepTab(delta int) {
	tabs := c.session.Catalog().Tabs()
	if len(tabs) == 0 {
		return
	}
	current := slices.Index(tabs, c.session.ActiveCategory())
	next := ((current+delta)%len(tabs) + len(tabs)) % len(tabs)
	c.session.SetActiveCategory(tabs[next])
}
