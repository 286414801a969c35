package telegramservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"go.uber.org/zap"
)

//go:generate mockgen -source=telegramservice.go -destination=telegramservice_mock.go -package=telegramservice

const (
	linkCodeTTL = 10 * time.Minute

	PurposeLink = "link"
)

type LinkCodeRepo interface {
	Create(ctx context.Context, code *domain.LinkCode) (*domain.LinkCode, error)
	Consume(ctx context.Context, code string, telegramID int64, telegramUsername string) (*domain.LinkCode, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	LinkTelegram(ctx context.Context, userID int, telegramID int64, telegramUsername string) error
}

type SettingsRepo interface {
	Get(ctx context.Context, userID int) (*domain.Settings, error)
}

// Notifier delivers a message to a telegram chat. The bot implements it;
// a nil notifier disables delivery.
type Notifier interface {
	Send(telegramID int64, message string) error
}

type Service struct {
	linkCodeRepo LinkCodeRepo
	userRepo     UserRepo
	settingsRepo SettingsRepo
	txManager    pg.TXManager
	notifier     Notifier
}

func New(linkCodeRepo LinkCodeRepo, userRepo UserRepo, settingsRepo SettingsRepo, txManager pg.TXManager) *Service {
	return &Service{
		linkCodeRepo: linkCodeRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
	}
}

// SetNotifier wires the bot in after construction. The bot needs this
// service for linking, so the dependency is circular by nature.
func (s *Service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

var (
	ErrInvalidCode   = errors.New("link code is invalid or expired")
	ErrAlreadyLinked = errors.New("telegram account already linked")
	ErrUserNotLinked = errors.New("telegram account is not linked")
)

// IssueLinkCode creates a short-lived code the user passes to the bot.
func (s *Service) IssueLinkCode(ctx context.Context, userID int) (*domain.LinkCode, error) {
	code := &domain.LinkCode{
		Code:      uuid.NewString(),
		UserID:    userID,
		Purpose:   PurposeLink,
		ExpiresAt: time.Now().UTC().Add(linkCodeTTL),
	}
	created, err := s.linkCodeRepo.Create(ctx, code)
	if err != nil {
		zap.L().Error("can't issue link code: ", zap.Error(err))
		return nil, err
	}
	return created, nil
}

// ConsumeLinkCode binds a telegram account to the code's owner. The code
// is single-use and expires after ten minutes.
func (s *Service) ConsumeLinkCode(ctx context.Context, code string, telegramID int64, telegramUsername string) (*domain.User, error) {
	existing, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyLinked
	}

	var user *domain.User
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		consumed, err := s.linkCodeRepo.Consume(ctx, code, telegramID, telegramUsername)
		if err != nil {
			return err
		}
		if consumed == nil {
			return ErrInvalidCode
		}

		if err := s.userRepo.LinkTelegram(ctx, consumed.UserID, telegramID, telegramUsername); err != nil {
			return err
		}

		user, err = s.userRepo.FindByID(ctx, consumed.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("telegram account linked", zap.Int("userID", user.ID), zap.Int64("telegramID", telegramID))
	return user, nil
}

func (s *Service) UserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotLinked
	}
	return user, nil
}

// Notify sends a message when the user has telegram linked and telegram
// notifications enabled. Delivery failures are logged, never propagated.
func (s *Service) Notify(ctx context.Context, userID int, message string) {
	if s.notifier == nil {
		return
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil || user.TelegramID == nil {
		return
	}

	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil || settings == nil || !settings.TelegramNotifications {
		return
	}

	if err := s.notifier.Send(*user.TelegramID, message); err != nil {
		zap.L().Warn("can't deliver telegram notification", zap.Int("userID", userID), zap.Error(err))
	}
}

// NotifyPurchase and NotifyDailyReward format the standard notifications.
func (s *Service) NotifyPurchase(ctx context.Context, userID int, itemName string, price int64) {
	s.Notify(ctx, userID, fmt.Sprintf("🛍 Purchase complete: %s for %d coins", itemName, price))
}

func (s *Service) NotifyDailyReward(ctx context.Context, userID int, reward int64, streak int) {
	s.Notify(ctx, userID, fmt.Sprintf("🎁 Daily reward claimed: +%d coins (day %d streak)", reward, streak))
}
