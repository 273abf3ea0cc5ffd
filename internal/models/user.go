package models

// AuthUser: upstream /auth/me ve /auth/login cevabındaki kullanıcı
type AuthUser struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	BusinessID *uint  `json:"business_id"`
	Role       string `json:"role"`
}

type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	User         *AuthUser `json:"user,omitempty"`
}
