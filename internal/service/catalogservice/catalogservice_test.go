package catalogservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/smmpanel/internal/domain"
)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	return New(repo), repo
}

func TestListServices(t *testing.T) {
	service, repo := NewMock(t)

	repo.EXPECT().ListActive(gomock.Any(), "instagram", "").Return([]domain.Service{{ServiceID: 101}}, nil)
	services, err := service.ListServices(context.Background(), "instagram", "")
	assert.NoError(t, err)
	assert.Len(t, services, 1)

	repo.EXPECT().ListActive(gomock.Any(), "", "").Return(nil, errors.New("db error"))
	_, err = service.ListServices(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestGetService(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(repo *MockRepo)
		expectedError error
	}{
		{
			name: "Active service",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByServiceID(gomock.Any(), 101).Return(&domain.Service{ServiceID: 101, IsActive: true}, nil)
			},
		},
		{
			name: "Inactive service is hidden",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByServiceID(gomock.Any(), 101).Return(&domain.Service{ServiceID: 101}, nil)
			},
			expectedError: domain.ErrServiceNotFound,
		},
		{
			name: "Unknown service",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByServiceID(gomock.Any(), 101).Return(nil, nil)
			},
			expectedError: domain.ErrServiceNotFound,
		},
		{
			name: "Storage error",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().FindByServiceID(gomock.Any(), 101).Return(nil, errors.New("db error"))
			},
			expectedError: domain.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			tt.prepareMock(repo)

			svc, err := service.GetService(context.Background(), 101)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, svc)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 101, svc.ServiceID)
		})
	}
}
