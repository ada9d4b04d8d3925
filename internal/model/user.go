package model

// User is a console operator. Its lifecycle is owned by the backend.
type User struct {
	ID          ID     `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	RoleName    string `json:"role_name"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	Status      string `json:"status,omitempty"`
}

// UserPayload is sent on user create and update. Password is only set on
// create or when it is being changed.
type UserPayload struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	RoleName string `json:"role_name" validate:"required"`
	Password string `json:"password,omitempty"`
	IsActive bool   `json:"is_active"`
}

type Role struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user,omitempty"`
}
