package repository

import (
	"fmt"

	supabase "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient connects to the hosted Supabase backend.
func NewSupabaseClient(url, key string) (*supabase.Client, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}

	return client, nil
}
