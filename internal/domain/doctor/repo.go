package doctor

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("doctor not found")

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Doctor, error)
	GetByUsername(ctx context.Context, username string) (*Doctor, error)
	// HasConflict reports whether any doctor already uses the given
	// username, email, or license number.
	HasConflict(ctx context.Context, username, email, licenseNumber string) (bool, error)
	Update(ctx context.Context, d *Doctor) error
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}
