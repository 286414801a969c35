package friendservice

import (
	"context"
	"errors"
	"testing"

	"github.com/itired/itired/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockUserRepo) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockRepo(ctrl)
	mockUsers := NewMockUserRepo(ctrl)
	service := New(mockRepo, mockUsers)

	return service, mockRepo, mockUsers
}

func TestService_SendRequest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		prepareMock func(repo *MockRepo, users *MockUserRepo)
		expectedErr error
	}{
		{
			name: "Pending request is created",
			prepareMock: func(repo *MockRepo, users *MockUserRepo) {
				users.EXPECT().FindByUsername(gomock.Any(), "othermusicfan").
					Return(&domain.User{ID: 2, Username: "othermusicfan"}, nil)
				repo.EXPECT().FindBetween(gomock.Any(), 1, 2).Return(nil, nil)
				repo.EXPECT().Create(gomock.Any(), 1, 2).
					Return(&domain.Friend{UserID: 1, FriendID: 2, Status: "pending"}, nil)
			},
		},
		{
			name: "Unknown user",
			prepareMock: func(repo *MockRepo, users *MockUserRepo) {
				users.EXPECT().FindByUsername(gomock.Any(), "othermusicfan").Return(nil, nil)
			},
			expectedErr: ErrUserNotFound,
		},
		{
			name: "Befriending yourself is rejected",
			prepareMock: func(repo *MockRepo, users *MockUserRepo) {
				users.EXPECT().FindByUsername(gomock.Any(), "othermusicfan").
					Return(&domain.User{ID: 1, Username: "othermusicfan"}, nil)
			},
			expectedErr: ErrSelfFriend,
		},
		{
			name: "Existing request in either direction blocks a new one",
			prepareMock: func(repo *MockRepo, users *MockUserRepo) {
				users.EXPECT().FindByUsername(gomock.Any(), "othermusicfan").
					Return(&domain.User{ID: 2}, nil)
				repo.EXPECT().FindBetween(gomock.Any(), 1, 2).
					Return(&domain.Friend{UserID: 2, FriendID: 1, Status: "pending"}, nil)
			},
			expectedErr: ErrAlreadyRequested,
		},
		{
			name: "Database error",
			prepareMock: func(repo *MockRepo, users *MockUserRepo) {
				users.EXPECT().FindByUsername(gomock.Any(), "othermusicfan").
					Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockRepo, mockUsers := NewMock(t)
			tt.prepareMock(mockRepo, mockUsers)

			friend, err := service.SendRequest(ctx, 1, "othermusicfan")

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.EqualError(t, err, tt.expectedErr.Error())
				assert.Nil(t, friend)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "pending", friend.Status)
			}
		})
	}
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepted friends are returned", func(t *testing.T) {
		service, mockRepo, _ := NewMock(t)
		mockRepo.EXPECT().ListAccepted(gomock.Any(), 1).Return([]domain.FriendProfile{
			{Username: "othermusicfan"},
		}, nil)

		friends, err := service.List(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, friends, 1)
	})
}
