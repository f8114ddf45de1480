package citizen

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "users"

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collectionName)}
}

func (s *MongoStore) Insert(ctx context.Context, c *Citizen) error {
	res, err := s.coll.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (Citizen, error) {
	var c Citizen
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Citizen{}, ErrNotFound
	}
	if err != nil {
		return Citizen{}, err
	}
	return c, nil
}

func (s *MongoStore) FindBySubject(ctx context.Context, subjectID string) (Citizen, error) {
	var c Citizen
	err := s.coll.FindOne(ctx, bson.M{"googleId": subjectID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Citizen{}, ErrNotFound
	}
	if err != nil {
		return Citizen{}, err
	}
	return c, nil
}
