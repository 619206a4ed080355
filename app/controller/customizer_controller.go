package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"dressup-studio/models"
	"dressup-studio/service"
	"dressup-studio/utils"
)

// FilesPrefix is where the asset root is mounted
const FilesPrefix = "/files/"

var modeLabels = map[models.HairMode]string{
	models.HairModePrimary:   "Primary",
	models.HairModeSecondary: "Secondary",
	models.HairModeDual:      "Both",
}

// CustomizerController handles the customizer page, its form actions and
// the JSON API over the process session
type CustomizerController struct {
	session    *service.Session
	browser    *service.Browser
	randomizer *service.Randomizer
	tmpl       *template.Template
	stage      service.Canvas // preview size in CSS pixels
}

// NewCustomizerController creates a new CustomizerController
func NewCustomizerController(
	session *service.Session,
	browser *service.Browser,
	randomizer *service.Randomizer,
	tmpl *template.Template,
	stage service.Canvas,
) *CustomizerController {
	return &CustomizerController{
		session:    session,
		browser:    browser,
		randomizer: randomizer,
		tmpl:       tmpl,
		stage:      stage,
	}
}

type modeChoice struct {
	Value  models.HairMode
	Label  string
	Active bool
}

// indexView is the data the index template renders
type indexView struct {
	models.StageState
	FilesPrefix string
	Width       int
	Height      int
	PageLabel   string
	ActiveLabel string
	HairActive  bool
	ModeChoices []modeChoice
}

// Index handles GET /
func (c *CustomizerController) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := c.browser.State()
	view := indexView{
		StageState:  state,
		FilesPrefix: FilesPrefix,
		Width:       c.stage.Width,
		Height:      c.stage.Height,
		PageLabel:   fmt.Sprintf("%d / %d", state.Page.PageIndex+1, state.Page.TotalPages),
		ActiveLabel: c.session.Catalog().Label(state.Page.Category),
		HairActive:  state.Page.Category == models.CategoryHair,
	}
	for _, mode := range models.HairModes {
		view.ModeChoices = append(view.ModeChoices, modeChoice{
			Value:  mode,
			Label:  modeLabels[mode],
			Active: mode == state.HairMode,
		})
	}

	// Render into a buffer so a template error still yields a clean 500
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, view); err != nil {
		log.Printf("❌ Index: Error rendering page: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("❌ Index: Error writing response: %v", err)
	}
}

// Action handles POST /actions/{select,clear,tab,page,mode,randomize,reset}
// from the page's forms and redirects back to the page
func (c *CustomizerController) Action(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/actions/")
	category := utils.CanonicalCategory(r.PostForm.Get("category"))

	switch action {
	case "select":
		index, err := strconv.Atoi(r.PostForm.Get("index"))
		if err != nil || !c.browser.Activate(category, index) {
			http.Error(w, "Invalid item index", http.StatusBadRequest)
			return
		}
	case "clear":
		c.browser.ActivateNone(category)
	case "tab":
		c.session.SetActiveCategory(category)
	case "page":
		switch r.PostForm.Get("direction") {
		case "prev":
			c.browser.Prev()
		case "next":
			c.browser.Next()
		default:
			http.Error(w, "direction must be prev or next", http.StatusBadRequest)
			return
		}
	case "mode":
		mode := models.HairMode(r.PostForm.Get("mode"))
		if !mode.Valid() {
			http.Error(w, "Invalid hair mode", http.StatusBadRequest)
			return
		}
		c.session.SetLayeringMode(mode)
	case "randomize":
		c.randomizer.RandomizeAll(c.session)
	case "reset":
		c.session.Reset()
	default:
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetState handles GET /api/state
func (c *CustomizerController) GetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.writeState(w)
}

// GetPage handles GET /api/page?category=Eyes&page=1
// Without page the category's current cursor is returned.
func (c *CustomizerController) GetPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	category := c.session.ActiveCategory()
	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		category = utils.CanonicalCategory(raw)
	}
	if !slices.Contains(c.session.Catalog().Tabs(), category) {
		http.Error(w, fmt.Sprintf("%s is not a selectable category", category), http.StatusBadRequest)
		return
	}

	var page models.GridPage
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "page must be an integer", http.StatusBadRequest)
			return
		}
		page = c.browser.PageAt(category, index)
	} else {
		page = c.browser.Page(category)
	}

	writeJSON(w, http.StatusOK, page)
}

// Select handles POST /api/select
func (c *CustomizerController) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Select: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	category := utils.CanonicalCategory(req.Category)
	if category == "" {
		http.Error(w, "category is required", http.StatusBadRequest)
		return
	}

	switch {
	case req.Index != nil:
		if !c.browser.Activate(category, *req.Index) {
			http.Error(w, "Invalid item index", http.StatusBadRequest)
			return
		}
	case req.Ref == "":
		c.browser.ActivateNone(category)
	default:
		items := c.session.Catalog().ItemsFor(category, c.session.LayeringMode())
		if !slices.Contains(items, req.Ref) {
			http.Error(w, fmt.Sprintf("Unknown item %q", req.Ref), http.StatusBadRequest)
			return
		}
		c.session.Select(category, req.Ref)
	}

	c.writeState(w)
}

// Clear handles POST /api/clear
func (c *CustomizerController) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	category := c.session.ActiveCategory()
	if req.Category != "" {
		category = utils.CanonicalCategory(req.Category)
	}
	c.session.Clear(category)
	c.writeState(w)
}

// SetTab handles POST /api/tab
func (c *CustomizerController) SetTab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	c.session.SetActiveCategory(utils.CanonicalCategory(req.Category))
	c.writeState(w)
}

// SetMode handles POST /api/mode
func (c *CustomizerController) SetMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	mode := models.HairMode(strings.ToLower(strings.TrimSpace(req.Mode)))
	if !mode.Valid() {
		http.Error(w, "Invalid mode. Valid modes: primary, secondary, dual", http.StatusBadRequest)
		return
	}

	c.session.SetLayeringMode(mode)
	c.writeState(w)
}

// Randomize handles POST /api/randomize
func (c *CustomizerController) Randomize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.randomizer.RandomizeAll(c.session)
	c.writeState(w)
}

// Reset handles POST /api/reset
func (c *CustomizerController) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.session.Reset()
	c.writeState(w)
}

func (c *CustomizerController) writeState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, c.browser.State())
}

// writeJSON sets the content type and encodes v
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}
