package friendservice

import (
	"context"
	"errors"

	"github.com/itired/itired/internal/domain"
	"go.uber.org/zap"
)

//go:generate mockgen -source=friendservice.go -destination=friendservice_mock.go -package=friendservice

type Repo interface {
	ListAccepted(ctx context.Context, userID int) ([]domain.FriendProfile, error)
	FindBetween(ctx context.Context, userID, friendID int) (*domain.Friend, error)
	Create(ctx context.Context, userID, friendID int) (*domain.Friend, error)
}

type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type Service struct {
	friendRepo Repo
	userRepo   UserRepo
}

func New(friendRepo Repo, userRepo UserRepo) *Service {
	return &Service{friendRepo: friendRepo, userRepo: userRepo}
}

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSelfFriend       = errors.New("can't befriend yourself")
	ErrAlreadyRequested = errors.New("friendship already exists")
)

func (s *Service) List(ctx context.Context, userID int) ([]domain.FriendProfile, error) {
	friends, err := s.friendRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	return friends, nil
}

// SendRequest creates a pending friendship towards the named user. A
// request already existing in either direction blocks a new one.
func (s *Service) SendRequest(ctx context.Context, userID int, username string) (*domain.Friend, error) {
	target, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == userID {
		return nil, ErrSelfFriend
	}

	existing, err := s.friendRepo.FindBetween(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRequested
	}

	friend, err := s.friendRepo.Create(ctx, userID, target.ID)
	if err != nil {
		zap.L().Error("can't create friend request: ", zap.Error(err))
		return nil, err
	}
	zap.L().Info("friend request sent", zap.Int("userID", userID), zap.Int("friendID", target.ID))
	return friend, nil
}
