package admin

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "admins"

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collectionName)}
}

func (s *MongoStore) Insert(ctx context.Context, a *Admin) error {
	res, err := s.coll.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (Admin, error) {
	var a Admin
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Admin{}, ErrNotFound
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (Admin, error) {
	var a Admin
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Admin{}, ErrNotFound
	}
	if err != nil {
		return Admin{}, err
	}
	return a, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Admin, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Admin
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) HasSuperadmin(ctx context.Context) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"role": RoleSuperadmin})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
