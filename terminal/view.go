package terminal

import (
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dressup-studio/models"
)

var modeNames = map[models.HairMode]string{
	models.HairModePrimary:   "primary",
	models.HairModeSecondary: "secondary",
	models.HairModeDual:      "both",
}

// styles are the lipgloss styles of one connection's renderer
type styles struct {
	tab       lipgloss.Style
	activeTab lipgloss.Style
	dim       lipgloss.Style
	selected  lipgloss.Style
	title     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	tab := r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("241"))
	return styles{
		tab:       tab,
		activeTab: tab.BorderForeground(lipgloss.Color("213")).Bold(true),
		dim:       r.NewStyle().Foreground(lipgloss.Color("241")),
		selected:  r.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
	}
}

// TabBar renders the category tabs, the active one highlighted
func (s styles) TabBar(tabs []models.Tab) string {
	cells := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		label := tab.Glyph + " " + tab.Label
		if tab.Active {
			cells = append(cells, s.activeTab.Render(label))
		} else {
			cells = append(cells, s.tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, cells...)
}

// TileList renders the page as a numbered list; 0 is the none tile
func (s styles) TileList(page models.GridPage) string {
	lines := []string{
		s.title.Render(string(page.Category)),
		s.dim.Render("0  (none)"),
	}
	for i, tile := range page.Items {
		line := fmt.Sprintf("%d  %s", i+1, path.Base(tile.Src))
		if tile.Selected {
			lines = append(lines, s.selected.Render(line+"  ●"))
		} else {
			lines = append(lines, line)
		}
	}
	lines = append(lines, "", s.dim.Render(fmt.Sprintf("page %d / %d", page.PageIndex+1, page.TotalPages)))
	return strings.Join(lines, "\n")
}

// StatusLine renders the hair mode and key help
func (s styles) StatusLine(state models.StageState) string {
	status := "←/→ tab  [ ] page  0-8 pick  r random  x reset  c clear  q quit"
	if state.DualHair {
		status = fmt.Sprintf("hair: %s (m)   ", modeNames[state.HairMode]) + status
	}
	return s.dim.Render(status)
}

// Frame lays out one full screen: tab bar, status line, then the preview
// beside the tile list
func (s styles) Frame(state models.StageState, preview image.Image) string {
	body := s.TileList(state.Page)
	if preview != nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, HalfBlocks(preview), "   ", body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.TabBar(state.Tabs), s.StatusLine(state), "", body)
}

// previewSize returns the preview canvas in pixels for a terminal size.
// Each cell is one pixel wide and two pixels tall.
func previewSize(termW, termH int) (int, int) {
	const chrome = 6 // tab bar, status line and spacing
	rows := max(termH-chrome, 4)
	cols := max(min(termW/2, rows*2), 8)
	return cols, rows * 2
}
