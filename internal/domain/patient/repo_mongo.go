package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (r *MongoRepo) Create(ctx context.Context, p *Patient) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id, doctorID primitive.ObjectID) (*Patient, error) {
	var p Patient
	err := r.col.FindOne(ctx, bson.M{"_id": id, "doctorId": doctorID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return &p, nil
}

func (r *MongoRepo) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID, limit, offset int) ([]*Patient, int64, error) {
	filter := bson.M{"doctorId": doctorID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	patients := []*Patient{}
	if err := cur.All(ctx, &patients); err != nil {
		return nil, 0, fmt.Errorf("decode patients: %w", err)
	}
	return patients, total, nil
}

func (r *MongoRepo) AllByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]*Patient, error) {
	cur, err := r.col.Find(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	patients := []*Patient{}
	if err := cur.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return patients, nil
}

func (r *MongoRepo) Update(ctx context.Context, p *Patient) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID, "doctorId": p.DoctorID}, p)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "doctorId": doctorID})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) PatientIDExists(ctx context.Context, patientID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"patientId": patientID})
	if err != nil {
		return false, fmt.Errorf("count patients: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepo) CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (r *MongoRepo) FindIDsByPhoneDigits(ctx context.Context, doctorID primitive.ObjectID, digits string) ([]primitive.ObjectID, error) {
	filter := bson.M{"doctorId": doctorID, "phone": bson.M{"$regex": digits}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find patients by phone: %w", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode patient ids: %w", err)
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *MongoRepo) Exists(ctx context.Context, id, doctorID primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id, "doctorId": doctorID})
	if err != nil {
		return false, fmt.Errorf("count patients: %w", err)
	}
	return n > 0, nil
}
