package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client against the given MongoDB URI and verifies the
// connection with a ping before returning it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}

// Collections bundles the three clinic collections so constructors take one
// argument instead of a database handle they would slice up themselves.
type Collections struct {
	Doctors       *mongo.Collection
	Patients      *mongo.Collection
	Prescriptions *mongo.Collection
}

func NewCollections(client *mongo.Client, dbName string) *Collections {
	database := client.Database(dbName)
	return &Collections{
		Doctors:       database.Collection("doctors"),
		Patients:      database.Collection("patients"),
		Prescriptions: database.Collection("prescriptions"),
	}
}
