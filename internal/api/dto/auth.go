package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type AuthData struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	OrganizationID string `json:"organization_id,omitempty"`
	OrgName        string `json:"org_name,omitempty"`
	LastLogin      string `json:"last_login,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}
