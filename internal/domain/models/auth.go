package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims is the subset of Supabase Auth JWT claims the planner reads.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	Role        string `json:"role"` // "authenticated" or "anon"
	SessionID   string `json:"session_id"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// GetUserID returns the subject claim, which owns trips and profiles.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}

// CanOwnTrips reports whether the token belongs to a signed-in account.
// Supabase anonymous sign-ins carry the "authenticated" role too, so the
// is_anonymous flag is checked separately.
func (c *SupabaseClaims) CanOwnTrips() bool {
	return c.Subject != "" && c.Role == "authenticated" && !c.IsAnonymous
}
