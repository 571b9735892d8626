package user

// User mirrors the UzytkownikOut payload returned by the Betya service.
type User struct {
	ID        int     `json:"id"`
	Username  string  `json:"nazwa_uzytkownika"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"profilowe_url,omitempty"`
}

type LoginRequest struct {
	Username string `json:"nazwa_uzytkownika"`
	Password string `json:"haslo"`
}

type RegisterRequest struct {
	Username string `json:"nazwa_uzytkownika"`
	Email    string `json:"email"`
	Password string `json:"haslo"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
