package auth

import "strings"

// Session keys persisted for the login state machine. Both are cleared
// together on logout.
const (
	SessionKeyLoggedIn = "isLoggedIn"
	SessionKeyUserInfo = "userInfo"

	// sessionKeyNotices is the one-shot counter that throttles repeated
	// unauthorized notifications. It survives logout on purpose and only
	// resets on a fresh successful login.
	sessionKeyNotices = "unauthorizedNotices"
)

// AccessAll is the sentinel granting access to every section.
const AccessAll = "all"

// RoleAdmin is the only role allowed into the admin console.
const RoleAdmin = "admin"

// RoleList enumerates assignable user roles.
var RoleList = []string{"admin", "sales", "staff", "dispatch"}

// UserInfo is the profile persisted at login, as returned by the upstream
// login endpoint.
type UserInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
	AccessTo string `json:"access_to"`
	Token    string `json:"token"`
}

// AccessList splits the comma-separated access scope into section keys.
func (u UserInfo) AccessList() []string {
	if u.AccessTo == "" {
		return []string{}
	}
	return strings.Split(u.AccessTo, ",")
}

// HasAccess reports whether the access list contains key or the sentinel.
func (u UserInfo) HasAccess(key string) bool {
	for _, entry := range u.AccessList() {
		if entry == AccessAll || entry == key {
			return true
		}
	}
	return false
}

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
