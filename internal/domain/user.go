package domain

// User represents an authenticated user account in the system.
//
// RefreshToken holds the single active refresh credential for the user, or
// empty when logged out. A login or register replaces whatever was stored
// before, so at most one session can refresh at any time.
type User struct {
	Entity
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	RefreshToken string `json:"refresh_token,omitempty"` // Current refresh credential, filter from API responses
}

// HasRefreshToken reports whether the user has an active refresh credential.
func (u *User) HasRefreshToken() bool {
	return u.RefreshToken != ""
}
