package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (r *MongoRepo) Create(ctx context.Context, d *Doctor) error {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.PrescriptionTemplates == nil {
		d.PrescriptionTemplates = []Template{}
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*Doctor, error) {
	var d Doctor
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	return &d, nil
}

func (r *MongoRepo) GetByUsername(ctx context.Context, username string) (*Doctor, error) {
	var d Doctor
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor by username: %w", err)
	}
	return &d, nil
}

func (r *MongoRepo) HasConflict(ctx context.Context, username, email, licenseNumber string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
		bson.M{"licenseNumber": licenseNumber},
	}}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("count doctors: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepo) Update(ctx context.Context, d *Doctor) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("count doctors: %w", err)
	}
	return n > 0, nil
}
