package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/itired/itired/internal/domain"
	"github.com/itired/itired/internal/pg"
	"github.com/itired/itired/pkg/auth"
	"go.uber.org/zap"
)

//go:generate mockgen -source=authservice.go -destination=authservice_mock.go -package=authservice

const welcomeBonus = 100

type Repo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	TouchLastActive(ctx context.Context, userID int) error
}

type WalletService interface {
	Adjust(ctx context.Context, userID int, amount int64, reason string, metadata map[string]any) (*domain.Wallet, error)
}

type SettingsRepo interface {
	Create(ctx context.Context, userID int) (*domain.Settings, error)
}

type StatsRepo interface {
	Ensure(ctx context.Context, userID int) error
	IncLogins(ctx context.Context, userID int) error
}

type Service struct {
	userRepo     Repo
	wallet       WalletService
	settingsRepo SettingsRepo
	statsRepo    StatsRepo
	txManager    pg.TXManager
	hashService  auth.HashServiceInterface
	jwtService   auth.JWTServiceInterface
}

func New(repo Repo, wallet WalletService, settingsRepo SettingsRepo, statsRepo StatsRepo, txManager pg.TXManager, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		userRepo:     repo,
		wallet:       wallet,
		settingsRepo: settingsRepo,
		statsRepo:    statsRepo,
		txManager:    txManager,
		hashService:  hashService,
		jwtService:   jwtService,
	}
}

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Register creates the account and its economy rows (wallet, settings,
// statistics) plus the welcome grant in a single transaction.
func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("username", username))
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		newUser, err := s.userRepo.Create(ctx, user)
		if err != nil {
			zap.L().Error("can't create user: ", zap.Error(err))
			return err
		}

		if _, err := s.settingsRepo.Create(ctx, newUser.ID); err != nil {
			zap.L().Error("can't create settings: ", zap.Error(err))
			return err
		}
		if err := s.statsRepo.Ensure(ctx, newUser.ID); err != nil {
			zap.L().Error("can't create statistics: ", zap.Error(err))
			return err
		}

		if _, err := s.wallet.Adjust(ctx, newUser.ID, welcomeBonus, domain.ReasonRegistrationBonus, nil); err != nil {
			zap.L().Error("can't grant welcome bonus: ", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("username", username))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.statsRepo.IncLogins(ctx, user.ID); err != nil {
		zap.L().Warn("can't bump login counter", zap.Error(err))
	}
	if err := s.userRepo.TouchLastActive(ctx, user.ID); err != nil {
		zap.L().Warn("can't touch last active", zap.Error(err))
	}

	zap.L().Info("user successfully authenticated", zap.String("username", username))
	return user, nil
}

func (s *Service) GenerateToken(userID int) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	token, err := s.jwtService.GenerateJWT(userID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
