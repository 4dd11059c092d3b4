package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
)

// ErrNotFound is returned when no user document matches the lookup or update.
var ErrNotFound = errors.New("user not found")

// FieldValue pairs a path with the value to store there.
type FieldValue struct {
	Path  docpath.Path
	Value any
}

// UserRepository defines the operations on the users collection.
// Every call is a single atomic operation on one document; nothing spans calls.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	Insert(ctx context.Context, u *entity.User) (string, error)
	InsertMany(ctx context.Context, users []*entity.User) ([]string, error)

	// SetField replaces the value at path, creating intermediate structure.
	SetField(ctx context.Context, id string, path docpath.Path, value any) error
	// SetFields applies several sets in one update.
	SetFields(ctx context.Context, id string, fields []FieldValue) error
	// UnsetField removes the value at path. Array slots become null, indices do not move.
	UnsetField(ctx context.Context, id string, path docpath.Path) error
	// PushField appends value to the array at path, creating it when absent.
	PushField(ctx context.Context, id string, path docpath.Path, value any) error
	// PullNulls removes every null entry of the array at path.
	PullNulls(ctx context.Context, id string, path docpath.Path) error
}
