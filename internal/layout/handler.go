package layout

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shht-tools/tradedesk/internal/shared"
)

// Handler keeps one State per session and exposes the endpoints the
// client-side viewport script posts to.
type Handler struct {
	mu     sync.Mutex
	states map[string]*State
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		states: make(map[string]*State),
		logger: logger,
	}
}

// StateFor returns the layout state for the session, creating it from
// the reported viewport width on first sight.
func (h *Handler) StateFor(sess *shared.Session, width int) *State {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.states[sess.ID]
	if !ok {
		state = NewState(width)
		h.states[sess.ID] = state
	}
	return state
}

// Drop discards the state for a session, typically on logout.
func (h *Handler) Drop(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.states, sessionID)
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/viewport", h.handleViewport)
	r.Post("/sidebar-toggle", h.handleSidebarToggle)
	r.Post("/drawer-open", h.handleDrawerOpen)
	r.Post("/drawer-close", h.handleDrawerClose)
	r.Post("/submenu", h.handleSubmenu)
	return r
}

// handleViewport records the browser width in the viewport cookie and
// resizes the session layout. Crossing the medium breakpoint closes the
// drawer and collapses open submenus.
func (h *Handler) handleViewport(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(r.FormValue("width"))
	if err != nil || width <= 0 {
		http.Error(w, "invalid width", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ViewportCookie,
		Value:    strconv.Itoa(width),
		Path:     "/",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.StateFor(sess, width).Resize(width)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(state *State) {
		state.ToggleSidebar()
	})
}

func (h *Handler) handleDrawerOpen(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(state *State) {
		state.OpenDrawer()
	})
}

func (h *Handler) handleDrawerClose(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(state *State) {
		state.CloseDrawer()
	})
}

// handleSubmenu toggles a sidebar submenu open or closed.
func (h *Handler) handleSubmenu(w http.ResponseWriter, r *http.Request) {
	key := r.FormValue("key")
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}
	open := r.FormValue("open") == "true"
	h.withState(w, r, func(state *State) {
		state.SetOpenItem(key, open)
	})
}

func (h *Handler) withState(w http.ResponseWriter, r *http.Request, fn func(*State)) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	fn(h.StateFor(sess, WidthFromRequest(r)))
	if back := r.Header.Get("Referer"); back != "" {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
