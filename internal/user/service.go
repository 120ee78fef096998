package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/granabot/grana-bot/internal/domain"
	"github.com/granabot/grana-bot/internal/repository"
	"github.com/granabot/grana-bot/internal/usercache"
)

// cacheTTL is short on purpose: onboarding completion writes through the
// repository, so the cached profile may lag by at most this long.
const cacheTTL = 2 * time.Minute

// Service provides business operations over users.
type Service struct {
	repo  repository.UserRepository
	cache *usercache.Cache
	log   *slog.Logger
}

// NewService constructs a new Service instance. cache may be nil.
func NewService(repo repository.UserRepository, cache *usercache.Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, cache: cache, log: log}
}

// GetOrCreate fetches a user by telegram ID or creates a new profile when
// missing. New profiles start with onboarding pending.
func (s *Service) GetOrCreate(ctx context.Context, telegramUser *telebot.User) (*domain.User, error) {
	if telegramUser == nil {
		return nil, errors.New("telegram user is nil")
	}

	if cached, err := s.cache.Get(ctx, telegramUser.ID); err == nil && cached != nil {
		return cached, nil
	}

	u, err := s.repo.FindByTelegramID(ctx, telegramUser.ID)
	if err == nil {
		s.cacheUser(ctx, u)
		return u, nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		s.logError("get_or_create.find", telegramUser.ID, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		TelegramID: telegramUser.ID,
		FirstName:  telegramUser.FirstName,
		Username:   telegramUser.Username,
	})
	if err != nil {
		s.logError("get_or_create.create", telegramUser.ID, err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("created new user", slog.Int64("telegram_id", telegramUser.ID), slog.String("user_id", created.ID))
	s.cacheUser(ctx, created)

	return created, nil
}

// MarkOnboarded flags onboarding complete and drops the cached profile so the
// next lookup sees the fresh record.
func (s *Service) MarkOnboarded(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user is nil")
	}

	if err := s.repo.MarkOnboarded(ctx, u.ID); err != nil {
		s.logError("mark_onboarded", u.TelegramID, err)
		return err
	}

	if err := s.cache.Invalidate(ctx, u.TelegramID); err != nil {
		s.logError("mark_onboarded.invalidate", u.TelegramID, err)
	}

	return nil
}

func (s *Service) cacheUser(ctx context.Context, u *domain.User) {
	if u == nil {
		return
	}

	if err := s.cache.Set(ctx, u.TelegramID, u, cacheTTL); err != nil {
		s.logError("cache_set", u.TelegramID, err)
	}
}

func (s *Service) logError(operation string, telegramID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("user service operation failed",
		slog.String("operation", operation),
		slog.Int64("telegram_id", telegramID),
		slog.Any("error", err),
	)
}
