package stats

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cliniva/cliniva/internal/domain/prescription"
)

type MongoRepo struct {
	patients      *mongo.Collection
	prescriptions *mongo.Collection
}

func NewMongoRepo(patients, prescriptions *mongo.Collection) *MongoRepo {
	return &MongoRepo{patients: patients, prescriptions: prescriptions}
}

func (r *MongoRepo) count(ctx context.Context, col *mongo.Collection, filter bson.M) (int64, error) {
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func (r *MongoRepo) CountPatients(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	return r.count(ctx, r.patients, bson.M{"doctorId": doctorID})
}

func (r *MongoRepo) CountPrescriptions(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	return r.count(ctx, r.prescriptions, bson.M{"doctorId": doctorID})
}

func (r *MongoRepo) CountPrescriptionsSince(ctx context.Context, doctorID primitive.ObjectID, since time.Time) (int64, error) {
	return r.count(ctx, r.prescriptions, bson.M{
		"doctorId":  doctorID,
		"createdAt": bson.M{"$gte": since},
	})
}

func (r *MongoRepo) CountFollowUps(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	return r.count(ctx, r.prescriptions, bson.M{
		"doctorId":     doctorID,
		"nextFollowUp": bson.M{"$ne": nil},
	})
}

func (r *MongoRepo) CountFollowUpsBetween(ctx context.Context, doctorID primitive.ObjectID, from, to time.Time) (int64, error) {
	return r.count(ctx, r.prescriptions, bson.M{
		"doctorId":     doctorID,
		"nextFollowUp": bson.M{"$gte": from, "$lt": to},
	})
}

func (r *MongoRepo) CountOverdueFollowUps(ctx context.Context, doctorID primitive.ObjectID, before time.Time) (int64, error) {
	return r.count(ctx, r.prescriptions, bson.M{
		"doctorId":     doctorID,
		"status":       prescription.StatusActive,
		"nextFollowUp": bson.M{"$ne": nil, "$lt": before},
	})
}
