package kvstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo stores each key as one document {_id: key, value: blob} so that
// several devices sharing a database see the same storefront state.
type Mongo struct {
	Collection *mongo.Collection
}

type kvDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func NewMongo(collection *mongo.Collection) *Mongo {
	return &Mongo{Collection: collection}
}

func (m *Mongo) Get(key string) (string, bool, error) {
	var doc kvDocument
	err := m.Collection.FindOne(context.TODO(), bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

func (m *Mongo) Set(key, value string) error {
	_, err := m.Collection.ReplaceOne(
		context.TODO(),
		bson.M{"_id": key},
		kvDocument{Key: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *Mongo) Delete(key string) error {
	_, err := m.Collection.DeleteOne(context.TODO(), bson.M{"_id": key})
	return err
}
