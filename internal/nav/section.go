// Package nav computes the visible route set and sidebar for the current
// user and guards section routes against the access list.
package nav

// Section identifies one navigable area of the console. Using a closed
// enum instead of string keys keeps the icon and route dispatch exhaustive
// at compile time.
type Section int

const (
	SectionDashboard Section = iota
	SectionOrders
	SectionInvoices
	SectionClients
	SectionUsers
	SectionSettings
	SectionChangePassword
)

// AllSections lists every section in sidebar order.
func AllSections() []Section {
	return []Section{
		SectionDashboard,
		SectionOrders,
		SectionInvoices,
		SectionClients,
		SectionUsers,
		SectionSettings,
		SectionChangePassword,
	}
}

// AccessKey returns the access-list key guarding the section. Sections with
// an empty key are available to every logged-in admin.
func (s Section) AccessKey() string {
	switch s {
	case SectionOrders:
		return "orders"
	case SectionInvoices:
		return "invoices"
	case SectionClients:
		return "clients"
	case SectionUsers:
		return "users"
	case SectionSettings:
		return "settings"
	case SectionDashboard, SectionChangePassword:
		return ""
	}
	return ""
}

// Path returns the route path for the section.
func (s Section) Path() string {
	switch s {
	case SectionDashboard:
		return "/"
	case SectionOrders:
		return "/orders"
	case SectionInvoices:
		return "/invoices"
	case SectionClients:
		return "/clients"
	case SectionUsers:
		return "/users"
	case SectionSettings:
		return "/settings"
	case SectionChangePassword:
		return "/change-password"
	}
	return "/"
}

// DisplayName returns the sidebar label.
func (s Section) DisplayName() string {
	switch s {
	case SectionDashboard:
		return "Dashboard"
	case SectionOrders:
		return "Orders"
	case SectionInvoices:
		return "Invoices"
	case SectionClients:
		return "Clients"
	case SectionUsers:
		return "Users"
	case SectionSettings:
		return "Settings"
	case SectionChangePassword:
		return "Change Password"
	}
	return ""
}

// Icon returns the icon identifier used by the sidebar template.
func (s Section) Icon() string {
	switch s {
	case SectionDashboard:
		return "dashboard"
	case SectionOrders:
		return "orders"
	case SectionInvoices:
		return "invoices"
	case SectionClients:
		return "clients"
	case SectionUsers:
		return "users"
	case SectionSettings:
		return "settings"
	case SectionChangePassword:
		return "key"
	}
	return "dot"
}

// InSidebar reports whether the section shows up as a sidebar item.
func (s Section) InSidebar() bool {
	return s != SectionChangePassword
}
