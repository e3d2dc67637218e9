package nav

import (
	"log/slog"
	"net/http"

	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/shared"
)

// Gate decides which sections a user may see and guards their routes.
type Gate struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Routes computes the mounted section set for a user: the dashboard and the
// change-password route are always present, each privileged section only
// when the access list carries its key or the universal sentinel. Non-admin
// roles get nothing.
func (g Gate) Routes(info auth.UserInfo) []Section {
	if info.Role != auth.RoleAdmin {
		return nil
	}
	sections := make([]Section, 0, len(AllSections()))
	for _, s := range AllSections() {
		key := s.AccessKey()
		if key == "" || info.HasAccess(key) {
			sections = append(sections, s)
		}
	}
	return sections
}

// Sidebar returns the visible sidebar entries for a user.
func (g Gate) Sidebar(info auth.UserInfo) []Section {
	var items []Section
	for _, s := range g.Routes(info) {
		if s.InSidebar() {
			items = append(items, s)
		}
	}
	return items
}

// RequireLogin redirects unauthenticated requests to the login route. It
// also enforces the tamper rule: a session carrying the login flag without
// a profile (or the other way round) is treated as externally modified and
// forced out with a notification.
func (g Gate) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		loggedIn := g.Service.IsLoggedIn(sess)
		_, hasProfile := g.Service.CurrentUser(sess)
		if loggedIn != hasProfile {
			g.Service.ForceLogout(sess)
			if g.Logger != nil {
				g.Logger.Warn("session keys out of sync, forcing logout")
			}
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		if !loggedIn {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSection gates a route subtree on the section's access key.
// Unauthorized users land on the not-found page rather than learning the
// section exists.
func (g Gate) RequireSection(section Section) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			info, ok := g.Service.CurrentUser(sess)
			if !ok {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			allowed := false
			for _, s := range g.Routes(info) {
				if s == section {
					allowed = true
					break
				}
			}
			if !allowed {
				if g.Logger != nil {
					g.Logger.Warn("section access denied",
						slog.String("section", section.DisplayName()),
						slog.String("role", info.Role))
				}
				http.Redirect(w, r, "/404", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
