package auth

import (
	"context"
	"log/slog"

	"github.com/shht-tools/tradedesk/internal/apiclient"
	"github.com/shht-tools/tradedesk/internal/shared"
)

const loginPath = "/login"

// grantAllAccessOnLogin overwrites the server-provided access scope with the
// universal sentinel for every successful login. This mirrors the behavior
// the product currently ships; whether it is intended is an open product
// question, so the override lives behind this single switch.
const grantAllAccessOnLogin = true

// Service owns the login state machine: LoggedOut -> (login success) ->
// LoggedIn -> (logout | 401 from any request) -> LoggedOut. State lives in
// the session store, never in the service itself.
type Service struct {
	api      *apiclient.Client
	logger   *slog.Logger
	onLogin  func(sessionID string)
	onLogout func(sessionID string)
}

// NewService constructs the auth service.
func NewService(api *apiclient.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger}
}

// OnLogin registers a callback invoked after a successful login.
func (s *Service) OnLogin(fn func(sessionID string)) { s.onLogin = fn }

// OnLogout registers a callback invoked after any logout.
func (s *Service) OnLogout(fn func(sessionID string)) { s.onLogout = fn }

// Login authenticates against the upstream API. On success the session
// records isLoggedIn=true and the user profile; any other envelope leaves
// the session logged out and carries the server message as a notification.
func (s *Service) Login(ctx context.Context, sess *shared.Session, creds Credentials) bool {
	env := s.api.Post(ctx, loginPath, creds)
	if !env.OK() || !env.Success {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: env.ErrorMessage()})
		return false
	}

	var info UserInfo
	if err := env.DecodeData(&info); err != nil {
		s.logger.Error("decode login payload", slog.Any("error", err))
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: apiclient.GenericMessage})
		return false
	}
	if grantAllAccessOnLogin {
		info.AccessTo = AccessAll
	}

	shared.Set(sess, SessionKeyLoggedIn, true)
	shared.Set(sess, SessionKeyUserInfo, info)
	shared.Set(sess, sessionKeyNotices, 0)

	message := env.Message
	if message == "" {
		message = "Login Success"
	}
	sess.AddFlash(shared.FlashMessage{Kind: "success", Message: message})
	if s.onLogin != nil {
		s.onLogin(sess.ID)
	}
	return true
}

// Logout clears both persisted keys. When triggered by a 401 envelope the
// unauthorized notification fires at most once until the next successful
// login, so repeated expired-session responses do not spam the user.
func (s *Service) Logout(sess *shared.Session, env *apiclient.Envelope) {
	shared.Remove(sess, SessionKeyLoggedIn)
	shared.Remove(sess, SessionKeyUserInfo)

	if env != nil {
		notices := shared.Get(sess, sessionKeyNotices, 0)
		if notices == 0 {
			message := env.Message
			if message == "" {
				message = "Unauthorized"
			}
			sess.AddFlash(shared.FlashMessage{Kind: "error", Message: message})
			shared.Set(sess, sessionKeyNotices, notices+1)
		}
	}
	if s.onLogout != nil {
		s.onLogout(sess.ID)
	}
}

// ForceLogout handles externally detected session tampering: both keys are
// cleared and the user is told why.
func (s *Service) ForceLogout(sess *shared.Session) {
	shared.Remove(sess, SessionKeyLoggedIn)
	shared.Remove(sess, SessionKeyUserInfo)
	sess.AddFlash(shared.FlashMessage{Kind: "error", Message: "Session storage changed."})
	if s.onLogout != nil {
		s.onLogout(sess.ID)
	}
}

// IsLoggedIn reads the persisted login flag.
func (s *Service) IsLoggedIn(sess *shared.Session) bool {
	return shared.Get(sess, SessionKeyLoggedIn, false)
}

// CurrentUser returns the persisted profile, when present.
func (s *Service) CurrentUser(sess *shared.Session) (UserInfo, bool) {
	var zero UserInfo
	info := shared.Peek(sess, SessionKeyUserInfo, zero)
	return info, info.Token != "" || info.ID != 0
}

// AccessTo derives the access list from the persisted profile.
func (s *Service) AccessTo(sess *shared.Session) []string {
	info, ok := s.CurrentUser(sess)
	if !ok {
		return []string{}
	}
	return info.AccessList()
}

// Unauthorized builds the standard 401 handler used by list loaders and
// mutation handlers: delegate the state transition to Logout.
func (s *Service) Unauthorized(sess *shared.Session) func(apiclient.Envelope) {
	return func(env apiclient.Envelope) {
		s.Logout(sess, &env)
	}
}

// TokenSource reads the bearer token from the session in the request
// context, for wiring into the API client.
func TokenSource(ctx context.Context) string {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return ""
	}
	var zero UserInfo
	info := shared.Peek(sess, SessionKeyUserInfo, zero)
	return info.Token
}
