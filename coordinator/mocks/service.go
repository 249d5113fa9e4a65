package mocks

import (
	"context"

	"github.com/absmach/fedcoord/coordinator"
	"github.com/absmach/fedcoord/pkg/fl"
	"github.com/stretchr/testify/mock"
)

var _ coordinator.Service = (*MockService)(nil)

// MockService is a mock implementation of the coordinator.Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) SubmitUpdate(ctx context.Context, req coordinator.UpdateRequest) (coordinator.SubmitResult, error) {
	args := m.Called(ctx, req)

	return args.Get(0).(coordinator.SubmitResult), args.Error(1)
}

func (m *MockService) FetchModel(ctx context.Context) (fl.Model, error) {
	args := m.Called(ctx)

	return args.Get(0).(fl.Model), args.Error(1)
}

func (m *MockService) Status(ctx context.Context) (coordinator.Status, error) {
	args := m.Called(ctx)

	return args.Get(0).(coordinator.Status), args.Error(1)
}

func (m *MockService) ListRounds(ctx context.Context, offset, limit uint64) (coordinator.RoundPage, error) {
	args := m.Called(ctx, offset, limit)

	return args.Get(0).(coordinator.RoundPage), args.Error(1)
}

func (m *MockService) GetRound(ctx context.Context, version uint64) (fl.Round, error) {
	args := m.Called(ctx, version)

	return args.Get(0).(fl.Round), args.Error(1)
}
