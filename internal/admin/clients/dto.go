package clients

// Client is a customer record as returned by the upstream API. The console
// renders and edits these fields; identity and integrity live upstream.
type Client struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	SubCategory    string          `json:"sub_category"`
	Tags           []string        `json:"tags"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	RM             string          `json:"rm"`
	SalesPerson    string          `json:"sales_person"`
	ContactPersons []ContactPerson `json:"contact_persons"`
}

// ContactPerson is a nested contact entry on a client.
type ContactPerson struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Mobile      string `json:"mobile"`
	Email       string `json:"email"`
}

// ListRequest is the retrieve body for the clients table.
type ListRequest struct {
	Offset      int    `json:"offset"`
	Limit       int    `json:"limit"`
	Search      string `json:"search,omitempty"`
	Category    int64  `json:"category,omitempty"`
	SubCategory int64  `json:"sub_category,omitempty"`
	Tag         int64  `json:"tag,omitempty"`
}

// CreateRequest carries the add-client form.
type CreateRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Category    int64  `json:"category" validate:"required,gt=0"`
	SubCategory int64  `json:"sub_category,omitempty"`
	Tags        string `json:"tags,omitempty"`
	City        string `json:"city,omitempty" validate:"omitempty,max=100"`
	State       string `json:"state,omitempty" validate:"omitempty,max=100"`
	RM          string `json:"rm,omitempty" validate:"omitempty,max=100"`
	SalesPerson string `json:"sales_person,omitempty" validate:"omitempty,max=100"`
}

// UpdateRequest carries the edit-client form.
type UpdateRequest struct {
	ID          int64  `json:"id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=200"`
	Category    int64  `json:"category" validate:"required,gt=0"`
	SubCategory int64  `json:"sub_category,omitempty"`
	Tags        string `json:"tags,omitempty"`
	City        string `json:"city,omitempty" validate:"omitempty,max=100"`
	State       string `json:"state,omitempty" validate:"omitempty,max=100"`
	RM          string `json:"rm,omitempty" validate:"omitempty,max=100"`
	SalesPerson string `json:"sales_person,omitempty" validate:"omitempty,max=100"`
}
