package backup

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cliniva/cliniva/internal/domain/doctor"
	"github.com/cliniva/cliniva/internal/domain/patient"
	"github.com/cliniva/cliniva/internal/domain/prescription"
)

type MongoDoctorStore struct {
	col *mongo.Collection
}

func NewMongoDoctorStore(col *mongo.Collection) *MongoDoctorStore {
	return &MongoDoctorStore{col: col}
}

func (s *MongoDoctorStore) All(ctx context.Context) ([]*doctor.Doctor, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("dump doctors: %w", err)
	}
	defer cur.Close(ctx)

	doctors := []*doctor.Doctor{}
	if err := cur.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}
	return doctors, nil
}

func (s *MongoDoctorStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return n, nil
}

func (s *MongoDoctorStore) DeleteAll(ctx context.Context) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear doctors: %w", err)
	}
	return nil
}

func (s *MongoDoctorStore) Insert(ctx context.Context, d *doctor.Doctor) error {
	if _, err := s.col.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (s *MongoDoctorStore) InsertMany(ctx context.Context, docs []*doctor.Doctor) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]interface{}, len(docs))
	for i, d := range docs {
		items[i] = d
	}
	if _, err := s.col.InsertMany(ctx, items); err != nil {
		return fmt.Errorf("insert doctors: %w", err)
	}
	return nil
}

type MongoPatientStore struct {
	col *mongo.Collection
}

func NewMongoPatientStore(col *mongo.Collection) *MongoPatientStore {
	return &MongoPatientStore{col: col}
}

func (s *MongoPatientStore) All(ctx context.Context) ([]*patient.Patient, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("dump patients: %w", err)
	}
	defer cur.Close(ctx)

	patients := []*patient.Patient{}
	if err := cur.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return patients, nil
}

func (s *MongoPatientStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (s *MongoPatientStore) CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (s *MongoPatientStore) DeleteAll(ctx context.Context) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear patients: %w", err)
	}
	return nil
}

func (s *MongoPatientStore) InsertMany(ctx context.Context, patients []*patient.Patient) error {
	if len(patients) == 0 {
		return nil
	}
	items := make([]interface{}, len(patients))
	for i, p := range patients {
		items[i] = p
	}
	if _, err := s.col.InsertMany(ctx, items); err != nil {
		return fmt.Errorf("insert patients: %w", err)
	}
	return nil
}

type MongoPrescriptionStore struct {
	col *mongo.Collection
}

func NewMongoPrescriptionStore(col *mongo.Collection) *MongoPrescriptionStore {
	return &MongoPrescriptionStore{col: col}
}

func (s *MongoPrescriptionStore) All(ctx context.Context) ([]*prescription.Prescription, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("dump prescriptions: %w", err)
	}
	defer cur.Close(ctx)

	prescriptions := []*prescription.Prescription{}
	if err := cur.All(ctx, &prescriptions); err != nil {
		return nil, fmt.Errorf("decode prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (s *MongoPrescriptionStore) Count(ctx context.Context) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count prescriptions: %w", err)
	}
	return n, nil
}

func (s *MongoPrescriptionStore) CountByDoctor(ctx context.Context, doctorID primitive.ObjectID) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"doctorId": doctorID})
	if err != nil {
		return 0, fmt.Errorf("count prescriptions: %w", err)
	}
	return n, nil
}

func (s *MongoPrescriptionStore) DeleteAll(ctx context.Context) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear prescriptions: %w", err)
	}
	return nil
}

func (s *MongoPrescriptionStore) Insert(ctx context.Context, p *prescription.Prescription) error {
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (s *MongoPrescriptionStore) InsertMany(ctx context.Context, prescriptions []*prescription.Prescription) error {
	if len(prescriptions) == 0 {
		return nil
	}
	items := make([]interface{}, len(prescriptions))
	for i, p := range prescriptions {
		items[i] = p
	}
	if _, err := s.col.InsertMany(ctx, items); err != nil {
		return fmt.Errorf("insert prescriptions: %w", err)
	}
	return nil
}
