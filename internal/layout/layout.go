// Package layout derives sidebar and header geometry from the reported
// viewport width and the sidebar toggle. Presentation state only: nothing
// here is persisted or touches the network.
package layout

import "sync"

// Breakpoints and fixed dimensions, in pixels.
const (
	ExtraSmallWidth      = 600
	MediumWidth          = 900
	HeaderHeight         = 64
	SidebarExpandedWidth = 300
	SidebarIconWidth     = 64
	PaddingNarrow        = 10
	PaddingWide          = 20

	// DefaultWidth is assumed when the browser has not reported a
	// viewport yet.
	DefaultWidth = 1280
)

// Snapshot is the geometry derived for one viewport width and toggle state.
type Snapshot struct {
	HeaderHeight     int
	SidebarWidth     int
	Padding          int
	IsExtraSmall     bool
	IsLessThanMedium bool
}

// Compute derives a Snapshot. The sidebar stays at full width on small
// screens (where it renders as an overlay drawer) and collapses to the
// icon-only width on large screens when not expanded.
func Compute(width int, sidebarExpanded bool) Snapshot {
	if width <= 0 {
		width = DefaultWidth
	}
	isExtraSmall := width < ExtraSmallWidth
	isLessThanMedium := width < MediumWidth

	sidebarWidth := SidebarIconWidth
	if sidebarExpanded || isLessThanMedium {
		sidebarWidth = SidebarExpandedWidth
	}
	padding := PaddingWide
	if isExtraSmall || isLessThanMedium {
		padding = PaddingNarrow
	}
	return Snapshot{
		HeaderHeight:     HeaderHeight,
		SidebarWidth:     sidebarWidth,
		Padding:          padding,
		IsExtraSmall:     isExtraSmall,
		IsLessThanMedium: isLessThanMedium,
	}
}

// State tracks the per-session presentation state: viewport width, the
// sidebar toggle, the navigation drawer, and which submenu is open.
type State struct {
	mu              sync.Mutex
	width           int
	sidebarExpanded bool
	drawerOpen      bool
	openItems       map[string]bool
}

// NewState starts with the given width; the sidebar starts expanded on
// large screens.
func NewState(width int) *State {
	if width <= 0 {
		width = DefaultWidth
	}
	return &State{
		width:           width,
		sidebarExpanded: width > MediumWidth,
		openItems:       map[string]bool{},
	}
}

// Resize records a new viewport width. Collapsing below the medium
// breakpoint forces the drawer closed; any open submenu is cleared either
// way.
func (s *State) Resize(width int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	if width < MediumWidth {
		s.drawerOpen = false
	}
	s.openItems = map[string]bool{}
	return Compute(s.width, s.sidebarExpanded)
}

// ToggleSidebar flips the expanded state and clears open submenus.
func (s *State) ToggleSidebar() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarExpanded = !s.sidebarExpanded
	s.openItems = map[string]bool{}
	return Compute(s.width, s.sidebarExpanded)
}

// OpenDrawer opens the navigation drawer.
func (s *State) OpenDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = true
}

// CloseDrawer closes the drawer and clears open submenus.
func (s *State) CloseDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
	s.openItems = map[string]bool{}
}

// DrawerOpen reports the drawer state.
func (s *State) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

// SetOpenItem marks a submenu as open or closed.
func (s *State) SetOpenItem(key string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.openItems[key] = true
		return
	}
	delete(s.openItems, key)
}

// IsOpenItem reports whether a submenu is open.
func (s *State) IsOpenItem(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openItems[key]
}

// SidebarExpanded reports the toggle state.
func (s *State) SidebarExpanded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarExpanded
}

// Snapshot computes the geometry for the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Compute(s.width, s.sidebarExpanded)
}
