package domain

import "github.com/supabase-community/supabase-go"

// SupabaseUser is the subset of a Supabase Auth user the service relies on.
type SupabaseUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt    string                 `json:"created_at,omitempty"`
	UpdatedAt    string                 `json:"updated_at,omitempty"`
}

type SupabaseClient interface {
	Initialize() error
	ValidateToken(token string) (*SupabaseUser, error)
	GetClientWithToken(token string) (*supabase.Client, error)
}
