package config

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client

// InitMongo connects and pings the document store.
func InitMongo(s Settings) error {
	if s.Mongo.URI == "" {
		return errors.New("MONGO_URI environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(s.Mongo.URI).
		SetServerSelectionTimeout(20 * time.Second).
		SetConnectTimeout(15 * time.Second).
		SetMaxPoolSize(10).
		SetMinPoolSize(1)

	// Atlas rejects some TLS 1.3 handshakes from Go 1.24; pin 1.2 when asked.
	if s.Mongo.ForceTLS {
		clientOpts = clientOpts.SetTLSConfig(&tls.Config{
			InsecureSkipVerify: s.Mongo.Insecure,
			MinVersion:         tls.VersionTLS12,
			MaxVersion:         tls.VersionTLS12,
		})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	MongoClient = client
	return nil
}

func MongoDatabase(s Settings) (*mongo.Database, error) {
	if MongoClient == nil {
		return nil, errors.New("MongoClient is nil; call InitMongo() first")
	}
	return MongoClient.Database(s.Mongo.DB), nil
}
