package model

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type CreateNotificationRequest struct {
	Kind    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
