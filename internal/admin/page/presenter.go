// Package page carries the plumbing every admin screen shares: template
// data assembly (layout geometry, sidebar, flash, CSRF), validation
// notifications, and the uniform handling of upstream mutation envelopes.
package page

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/auth"
	"github.com/shht-tools/tradedesk/internal/layout"
	"github.com/shht-tools/tradedesk/internal/nav"
	"github.com/shht-tools/tradedesk/internal/shared"
	"github.com/shht-tools/tradedesk/internal/view"
)

// Presenter renders admin pages with the shared chrome.
type Presenter struct {
	Templates *view.Engine
	Auth      *auth.Service
	Gate      nav.Gate
	CSRF      *shared.CSRFManager
	Layout    *layout.Handler
	Logger    *slog.Logger
}

// Render writes the named page template with the standard chrome around
// the screen-specific data.
func (p *Presenter) Render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := p.CSRF.EnsureToken(r.Context(), sess)

	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}

	var snapshot layout.Snapshot
	var sidebar []view.SidebarItem
	userName := ""
	loggedIn := false
	if sess != nil {
		state := p.Layout.StateFor(sess, layout.WidthFromRequest(r))
		snapshot = state.Snapshot()
		if info, ok := p.Auth.CurrentUser(sess); ok {
			loggedIn = true
			userName = info.Name
			for _, section := range p.Gate.Sidebar(info) {
				sidebar = append(sidebar, view.SidebarItem{
					Name:   section.DisplayName(),
					Path:   section.Path(),
					Icon:   section.Icon(),
					Active: section.Path() == r.URL.Path,
				})
			}
		}
	}

	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Layout:      snapshot,
		Sidebar:     sidebar,
		UserName:    userName,
		LoggedIn:    loggedIn,
		Data:        data,
	}
	if err := p.Templates.Render(w, name, viewData); err != nil {
		p.Logger.Error("render page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// FlashValidation queues one notification per violated rule and reports
// whether any rule failed. The request never reaches upstream on failure.
func (p *Presenter) FlashValidation(sess *shared.Session, err error) bool {
	if err == nil {
		return false
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range errs {
			shared.FlashError(sess, view.Humanize(fieldErr.Field())+" is invalid")
		}
		return true
	}
	shared.FlashError(sess, apiclient.GenericMessage)
	return true
}

// HandleMutation applies the uniform envelope policy for create, update,
// delete and status-change posts: 401 logs the user out through the auth
// state machine, any other failure flashes the server message and returns
// to the origin so the form can be retried, success flashes and redirects
// to the listing.
func (p *Presenter) HandleMutation(w http.ResponseWriter, r *http.Request, env apiclient.Envelope, successMessage, successPath string) {
	sess := shared.SessionFromContext(r.Context())
	switch {
	case env.Unauthorized():
		p.Auth.Logout(sess, &env)
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	case env.OK():
		message := env.Message
		if message == "" {
			message = successMessage
		}
		shared.FlashSuccess(sess, message)
		http.Redirect(w, r, successPath, http.StatusSeeOther)
	default:
		shared.FlashError(sess, env.ErrorMessage())
		http.Redirect(w, r, backPath(r, successPath), http.StatusSeeOther)
	}
}

// HandleExport decodes the download link an export call returns and
// sends the browser there. Failures follow the same envelope policy as
// mutations.
func (p *Presenter) HandleExport(w http.ResponseWriter, r *http.Request, env apiclient.Envelope, fallbackPath string) {
	if !env.OK() {
		p.HandleMutation(w, r, env, "", fallbackPath)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	var payload struct {
		FileURL string `json:"file_url"`
	}
	if err := env.DecodeData(&payload); err != nil || payload.FileURL == "" {
		p.Logger.Error("decode export link", slog.Any("error", err))
		shared.FlashError(sess, apiclient.GenericMessage)
		http.Redirect(w, r, backPath(r, fallbackPath), http.StatusSeeOther)
		return
	}

	message := env.Message
	if message == "" {
		message = "File downloaded successfully!"
	}
	shared.FlashSuccess(sess, message)
	http.Redirect(w, r, payload.FileURL, http.StatusSeeOther)
}

// RequireUnauthorizedRedirect checks whether a list observe cycle logged
// the session out and, if so, redirects to login.
func (p *Presenter) RequireUnauthorizedRedirect(w http.ResponseWriter, r *http.Request) bool {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil && !p.Auth.IsLoggedIn(sess) {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return true
	}
	return false
}

func backPath(r *http.Request, fallback string) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref
	}
	return fallback
}
