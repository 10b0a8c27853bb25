package stats

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository exposes the counters the dashboard is built from, all scoped
// to one doctor.
type Repository interface {
	CountPatients(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
	CountPrescriptions(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
	CountPrescriptionsSince(ctx context.Context, doctorID primitive.ObjectID, since time.Time) (int64, error)
	// CountFollowUps counts prescriptions with a follow-up date scheduled.
	CountFollowUps(ctx context.Context, doctorID primitive.ObjectID) (int64, error)
	CountFollowUpsBetween(ctx context.Context, doctorID primitive.ObjectID, from, to time.Time) (int64, error)
	// CountOverdueFollowUps counts still-active prescriptions whose
	// follow-up date has passed.
	CountOverdueFollowUps(ctx context.Context, doctorID primitive.ObjectID, before time.Time) (int64, error)
}
