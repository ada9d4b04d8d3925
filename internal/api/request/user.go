package request

import (
	"strings"

	"github.com/edvin/cdcadmin/internal/model"
)

type UserForm struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RoleName string `json:"role_name"`
	Password string `json:"password"`
	IsActive *bool  `json:"is_active"`
}

func (f UserForm) Normalize() model.UserPayload {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	return model.UserPayload{
		Email:    strings.ToLower(strings.TrimSpace(f.Email)),
		FullName: strings.TrimSpace(f.FullName),
		RoleName: strings.TrimSpace(f.RoleName),
		Password: f.Password,
		IsActive: active,
	}
}

var userMessages = messages{
	"email.required":     "Email is required",
	"email.email":        "Email is invalid",
	"full_name.required": "Full name is required",
	"role_name.required": "Role is required",
}

// Payload normalizes and validates the form. Passwords are only required
// when creating.
func (f UserForm) Payload(creating bool) (model.UserPayload, error) {
	p := f.Normalize()
	if err := check(p, userMessages); err != nil {
		return model.UserPayload{}, err
	}
	if creating && p.Password == "" {
		return model.UserPayload{}, Invalid("password", "Password is required")
	}
	return p, nil
}

// LoginForm is the console sign-in body.
type LoginForm struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
