package complaint

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "complaints"

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(collectionName)}
}

func (s *MongoStore) Insert(ctx context.Context, c *Complaint) error {
	res, err := s.coll.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (Complaint, error) {
	var c Complaint
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Complaint{}, ErrNotFound
	}
	if err != nil {
		return Complaint{}, err
	}
	return c, nil
}

func (s *MongoStore) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]Complaint, error) {
	return s.find(ctx, bson.M{"createdBy": ownerID}, newestFirst(), 0, 0)
}

func (s *MongoStore) FindVisible(ctx context.Context, statuses []Status, limit int64) ([]Complaint, error) {
	return s.find(ctx, bson.M{"status": bson.M{"$in": statuses}}, newestFirst(), 0, limit)
}

func (s *MongoStore) FindPage(ctx context.Context, f Filter, skip, limit int64) ([]Complaint, error) {
	return s.find(ctx, filterQuery(f), newestFirst(), skip, limit)
}

func (s *MongoStore) Count(ctx context.Context, f Filter) (int64, error) {
	return s.coll.CountDocuments(ctx, filterQuery(f))
}

func (s *MongoStore) AppendStatus(ctx context.Context, id primitive.ObjectID, status Status, entry StatusHistoryEntry) (Complaint, error) {
	update := bson.M{
		"$set":  bson.M{"status": status, "updatedAt": entry.Timestamp},
		"$push": bson.M{"statusHistory": entry},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *MongoStore) SetAssignee(ctx context.Context, id, adminID primitive.ObjectID) (Complaint, error) {
	update := bson.M{
		"$set": bson.M{"assignedTo": adminID, "updatedAt": time.Now().UTC()},
	}
	return s.findOneAndUpdate(ctx, id, update)
}

func (s *MongoStore) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	return groupCount[Status](ctx, s.coll, "$status")
}

func (s *MongoStore) CountByCategory(ctx context.Context) (map[Category]int64, error) {
	return groupCount[Category](ctx, s.coll, "$category")
}

func (s *MongoStore) find(ctx context.Context, query bson.M, sort bson.D, skip, limit int64) ([]Complaint, error) {
	opts := options.Find().SetSort(sort)
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Complaint
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (Complaint, error) {
	var c Complaint
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Complaint{}, ErrNotFound
	}
	if err != nil {
		return Complaint{}, err
	}
	return c, nil
}

func filterQuery(f Filter) bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.TitleSearch != "" {
		q["title"] = bson.M{"$regex": regexp.QuoteMeta(f.TitleSearch), "$options": "i"}
	}
	return q
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}}
}

func groupCount[K ~string](ctx context.Context, coll *mongo.Collection, field string) (map[K]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[K]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[K(row.ID)] = row.Count
	}
	return out, cur.Err()
}
