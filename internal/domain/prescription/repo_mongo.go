package prescription

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

func (r *MongoRepo) Create(ctx context.Context, p *Prescription) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusActive
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id, doctorID primitive.ObjectID) (*Prescription, error) {
	var p Prescription
	err := r.col.FindOne(ctx, bson.M{"_id": id, "doctorId": doctorID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find prescription: %w", err)
	}
	return &p, nil
}

func (r *MongoRepo) ListByDoctor(ctx context.Context, doctorID primitive.ObjectID, limit, offset int) ([]*Prescription, int64, error) {
	filter := bson.M{"doctorId": doctorID}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count prescriptions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list prescriptions: %w", err)
	}
	defer cur.Close(ctx)

	prescriptions := []*Prescription{}
	if err := cur.All(ctx, &prescriptions); err != nil {
		return nil, 0, fmt.Errorf("decode prescriptions: %w", err)
	}
	return prescriptions, total, nil
}

func (r *MongoRepo) ListByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) ([]*Prescription, error) {
	filter := bson.M{"patientId": patientID, "doctorId": doctorID}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer cur.Close(ctx)

	prescriptions := []*Prescription{}
	if err := cur.All(ctx, &prescriptions); err != nil {
		return nil, fmt.Errorf("decode prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *MongoRepo) Update(ctx context.Context, p *Prescription) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID, "doctorId": p.DoctorID}, p)
	if err != nil {
		return fmt.Errorf("update prescription: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, id, doctorID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "doctorId": doctorID})
	if err != nil {
		return fmt.Errorf("delete prescription: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) DeleteByPatient(ctx context.Context, patientID, doctorID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"patientId": patientID, "doctorId": doctorID})
	if err != nil {
		return 0, fmt.Errorf("delete prescriptions by patient: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRepo) DeleteByPatientIDs(ctx context.Context, doctorID primitive.ObjectID, patientIDs []primitive.ObjectID) (int64, error) {
	if len(patientIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{"doctorId": doctorID, "patientId": bson.M{"$in": patientIDs}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete orphaned prescriptions: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRepo) DistinctPatientIDs(ctx context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	raw, err := r.col.Distinct(ctx, "patientId", bson.M{"doctorId": doctorID})
	if err != nil {
		return nil, fmt.Errorf("distinct patient ids: %w", err)
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *MongoRepo) PrescriptionIDExists(ctx context.Context, prescriptionID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"prescriptionId": prescriptionID})
	if err != nil {
		return false, fmt.Errorf("count prescriptions: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepo) CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return 0, fmt.Errorf("count prescriptions: %w", err)
	}
	return n, nil
}

func (r *MongoRepo) Search(ctx context.Context, doctorID primitive.ObjectID, terms SearchTerms) ([]*Prescription, error) {
	regex := bson.M{"$regex": terms.Pattern, "$options": "i"}
	or := bson.A{
		bson.M{"patientName": regex},
		bson.M{"symptoms": regex},
		bson.M{"prescription": regex},
		bson.M{"prescriptionId": regex},
	}
	if len(terms.PatientIDs) > 0 {
		or = append(or, bson.M{"patientId": bson.M{"$in": terms.PatientIDs}})
	}
	filter := bson.M{"doctorId": doctorID, "$or": or}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search prescriptions: %w", err)
	}
	defer cur.Close(ctx)

	prescriptions := []*Prescription{}
	if err := cur.All(ctx, &prescriptions); err != nil {
		return nil, fmt.Errorf("decode prescriptions: %w", err)
	}
	return prescriptions, nil
}
