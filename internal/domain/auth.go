package domain

// AnonymousUserID owns documents stored while authentication is disabled.
const AnonymousUserID = "anonymous"

type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}
