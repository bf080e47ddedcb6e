package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"

	"memorize-server/config"
	"memorize-server/matcherrors"
	"memorize-server/theme"
)

var validate = validator.New()

// Handler holds dependencies for API handlers.
type Handler struct {
	Config *config.Config
	Themes *theme.Store
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(cfg *config.Config, themes *theme.Store) *Handler {
	return &Handler{
		Config: cfg,
		Themes: themes,
	}
}

// Routes returns the /api/themes router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(CORS)
	r.Get("/", h.ListThemes)
	r.Post("/", h.CreateTheme)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTheme)
		r.Patch("/", h.UpdateTheme)
		r.Delete("/", h.DeleteTheme)
		r.Post("/move", h.MoveTheme)
	})
	return r
}

// CORS sets CORS headers and answers preflight requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateThemeRequest is the body of POST /api/themes.
type CreateThemeRequest struct {
	Name    string   `json:"name" validate:"required"`
	Symbols []string `json:"symbols"`
	// SymbolText is free text split into symbols, appended after Symbols.
	SymbolText    string           `json:"symbolText"`
	ColorName     string           `json:"colorName"`
	Color         *theme.RGBAColor `json:"color"`
	NumberOfPairs int              `json:"numberOfPairs" validate:"gte=0"`
}

// UpdateThemeRequest is the body of PATCH /api/themes/{id}. Absent fields
// are left alone.
type UpdateThemeRequest struct {
	Name           *string          `json:"name" validate:"omitnil,min=1"`
	AddSymbols     string           `json:"addSymbols"`
	RemoveSymbols  []string         `json:"removeSymbols"`
	ColorName      *string          `json:"colorName"`
	Color          *theme.RGBAColor `json:"color"`
	NumberOfPairs  *int             `json:"numberOfPairs" validate:"omitnil,gte=0"`
	RandomizePairs bool             `json:"randomizePairs"`
}

// MoveThemeRequest is the body of POST /api/themes/{id}/move.
type MoveThemeRequest struct {
	To *int `json:"to" validate:"required,gte=0"`
}

// ListThemes returns every theme in display order.
func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Themes.Themes())
}

// GetTheme returns a single theme.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := themeID(w, r)
	if !ok {
		return
	}
	t, found := h.Themes.Theme(id)
	if !found {
		respondErr(w, r, matcherrors.ErrThemeNotFound)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// CreateTheme appends a new playable theme.
func (h *Handler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var req CreateThemeRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.checkName(w, req.Name) {
		return
	}
	color := theme.MustColor("blue")
	if req.Color != nil || req.ColorName != "" {
		var ok bool
		if color, ok = pickColor(w, req.ColorName, req.Color); !ok {
			return
		}
	}

	symbols := append(append([]string(nil), req.Symbols...), theme.SplitSymbols(req.SymbolText)...)
	t := h.Themes.NewTheme(req.Name, symbols, color, req.NumberOfPairs)
	if err := t.Validate(); err != nil {
		respondErr(w, r, err)
		return
	}
	t = h.Themes.Insert(t, h.Themes.Len())
	respondJSON(w, http.StatusCreated, t)
}

// UpdateTheme applies a partial edit. An edit that would leave the theme
// unplayable is rejected and changes nothing.
func (h *Handler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := themeID(w, r)
	if !ok {
		return
	}
	var req UpdateThemeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name != nil && !h.checkName(w, *req.Name) {
		return
	}
	var color *theme.RGBAColor
	if req.Color != nil || req.ColorName != nil {
		name := ""
		if req.ColorName != nil {
			name = *req.ColorName
		}
		c, ok := pickColor(w, name, req.Color)
		if !ok {
			return
		}
		color = &c
	}

	edit := func(t *theme.Theme) {
		if req.Name != nil {
			t.Rename(*req.Name)
		}
		t.AddSymbols(theme.SplitSymbols(req.AddSymbols)...)
		for _, s := range req.RemoveSymbols {
			t.RemoveSymbol(s)
		}
		if color != nil {
			t.SetColor(*color)
		}
		if req.NumberOfPairs != nil {
			t.SetNumberOfPairs(*req.NumberOfPairs)
		}
		if req.RandomizePairs {
			t.RandomizeNumberOfPairs(nil)
		}
	}

	t, err := h.Themes.UpdateIf(id, edit, theme.Theme.Validate)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// DeleteTheme removes a theme.
func (h *Handler) DeleteTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := themeID(w, r)
	if !ok {
		return
	}
	if err := h.Themes.Delete(id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveTheme moves a theme to a new display position and returns the new order.
func (h *Handler) MoveTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := themeID(w, r)
	if !ok {
		return
	}
	var req MoveThemeRequest
	if !decode(w, r, &req) {
		return
	}
	from, found := h.Themes.Index(id)
	if !found {
		respondErr(w, r, matcherrors.ErrThemeNotFound)
		return
	}
	if err := h.Themes.Move(from, *req.To); err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Themes.Themes())
}

func (h *Handler) checkName(w http.ResponseWriter, name string) bool {
	if n := uniseg.GraphemeClusterCount(name); n > h.Config.MaxThemeNameLength {
		respondError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("name is %d characters long; the limit is %d", n, h.Config.MaxThemeNameLength))
		return false
	}
	return true
}

// pickColor prefers an explicit color over a palette name.
func pickColor(w http.ResponseWriter, name string, c *theme.RGBAColor) (theme.RGBAColor, bool) {
	if c != nil {
		return c.Clamped(), true
	}
	color, ok := theme.ColorNamed(name)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown color "+strconv.Quote(name))
		return theme.RGBAColor{}, false
	}
	return color, true
}

func themeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid theme id")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
