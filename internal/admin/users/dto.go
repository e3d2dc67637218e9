package users

// User is an operator account as the upstream API returns it. Status,
// EmailStatus and WhatsappStatus are toggles flipped from the listing.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Mobile         string `json:"mobile"`
	Role           string `json:"role"`
	AccessTo       string `json:"access_to"`
	Status         bool   `json:"status"`
	EmailStatus    bool   `json:"email_status"`
	WhatsappStatus bool   `json:"whatsapp_status"`
}

// ListRequest is the retrieve body for the users table.
type ListRequest struct {
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Search string `json:"search,omitempty"`
	Role   string `json:"role,omitempty"`
}

// CreateRequest carries the add-user form.
type CreateRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,len=10,numeric"`
	Role     string `json:"role" validate:"required"`
	AccessTo string `json:"access_to,omitempty"`
}

// UpdateRequest carries the edit-user form. Password stays unchanged when
// left blank.
type UpdateRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,len=10,numeric"`
	Role     string `json:"role" validate:"required"`
	AccessTo string `json:"access_to,omitempty"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// ChangePasswordRequest carries the self-service password form.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}
