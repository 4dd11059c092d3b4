package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	"github.com/oksasatya/chessup-server/internal/domain/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*entity.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) Insert(ctx context.Context, u *entity.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) InsertMany(ctx context.Context, users []*entity.User) ([]string, error) {
	args := m.Called(ctx, users)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockUserRepository) SetField(ctx context.Context, id string, path docpath.Path, value any) error {
	args := m.Called(ctx, id, path.String(), value)
	return args.Error(0)
}

func (m *MockUserRepository) SetFields(ctx context.Context, id string, fields []repository.FieldValue) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) UnsetField(ctx context.Context, id string, path docpath.Path) error {
	args := m.Called(ctx, id, path.String())
	return args.Error(0)
}

func (m *MockUserRepository) PushField(ctx context.Context, id string, path docpath.Path, value any) error {
	args := m.Called(ctx, id, path.String(), value)
	return args.Error(0)
}

func (m *MockUserRepository) PullNulls(ctx context.Context, id string, path docpath.Path) error {
	args := m.Called(ctx, id, path.String())
	return args.Error(0)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)
