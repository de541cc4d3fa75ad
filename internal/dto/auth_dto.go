package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Email       string `json:"email"       validate:"required,email,max=254"`
	Password    string `json:"password"    validate:"required,min=6,max=72"`
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AccountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	Account      AccountResponse `json:"account"`
}

type SignupResponse struct {
	Message string          `json:"message"`
	Account AccountResponse `json:"account"`
}
