package models

// AdminUser is the authenticated console operator.
type AdminUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginRequest is the JSON body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
