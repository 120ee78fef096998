package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/granabot/grana-bot/internal/domain"
)

type categoryRepository struct {
	client *supabase.Client
	log    *slog.Logger
}

// NewCategoryRepository creates a Supabase-backed category catalog.
func NewCategoryRepository(client *supabase.Client, log *slog.Logger) CategoryRepository {
	if log == nil {
		log = slog.Default()
	}

	return &categoryRepository{client: client, log: log}
}

// List returns the full category catalog.
func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	data, _, err := r.client.From("categories").Select("*", "", false).Execute()
	if err != nil {
		r.log.Error("failed to list categories", slog.Any("error", err))
		return nil, fmt.Errorf("select categories: %w", err)
	}

	var categories []domain.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	return categories, nil
}
