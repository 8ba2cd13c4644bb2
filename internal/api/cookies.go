package api

import (
	"net/http"
	"time"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	// The refresh cookie only ever travels to the refresh endpoint.
	refreshCookiePath = "/api/v1/auth/refresh"
)

// accessCookie builds the short-lived session cookie sent on every request.
func (s *Server) accessCookie(token string, ttl time.Duration) http.Cookie {
	return http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// refreshCookie builds the long-lived cookie scoped to the refresh endpoint.
func (s *Server) refreshCookie(token string, ttl time.Duration) http.Cookie {
	return http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// clearedSessionCookies returns both cookies expired, for logout.
func (s *Server) clearedSessionCookies() []http.Cookie {
	access := s.accessCookie("", 0)
	access.MaxAge = -1
	refresh := s.refreshCookie("", 0)
	refresh.MaxAge = -1
	return []http.Cookie{access, refresh}
}
