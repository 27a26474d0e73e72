package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogware/posts-contract-tests/model"
)

const (
	defaultMongoDatabase = "blog"
	mongoCollectionName  = "posts"
)

// MongoStore persists posts as BSON documents in a MongoDB collection, using
// ObjectID hex strings as post ids. This is the backend that matches the
// document-database deployment the service is normally run against.
type MongoStore struct {
	client *mongo.Client
	posts  *mongo.Collection
}

type mongoAuthor struct {
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
}

type mongoPost struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Author  mongoAuthor        `bson:"author"`
	Created time.Time          `bson:"created"`
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb at %q: %w", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb at %q is not responding: %w", uri, err)
	}
	return &MongoStore{
		client: client,
		posts:  client.Database(database).Collection(mongoCollectionName),
	}, nil
}

func (s *MongoStore) Insert(ctx context.Context, post model.Post) (model.Post, error) {
	doc := toMongoPost(post)
	doc.ID = primitive.NewObjectID()
	if doc.Created.IsZero() {
		doc.Created = time.Now().UTC()
	}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return model.Post{}, err
	}
	return fromMongoPost(doc), nil
}

func (s *MongoStore) InsertMany(ctx context.Context, posts []model.Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		doc := toMongoPost(p)
		doc.ID = primitive.NewObjectID()
		if doc.Created.IsZero() {
			doc.Created = time.Now().UTC()
		}
		docs = append(docs, doc)
	}
	res, err := s.posts.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) FindAll(ctx context.Context) ([]model.Post, error) {
	cursor, err := s.posts.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []mongoPost
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ret := make([]model.Post, 0, len(docs))
	for _, doc := range docs {
		ret = append(ret, fromMongoPost(doc))
	}
	return ret, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// an id that cannot be an ObjectID cannot identify any record
		return model.Post{}, ErrNotFound
	}
	var doc mongoPost
	err = s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, err
	}
	return fromMongoPost(doc), nil
}

func (s *MongoStore) FindOne(ctx context.Context) (model.Post, error) {
	var doc mongoPost
	err := s.posts.FindOne(ctx, bson.D{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, err
	}
	return fromMongoPost(doc), nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, update PostUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	fields := bson.M{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Content != nil {
		fields["content"] = *update.Content
	}
	if len(fields) == 0 {
		// nothing to change; still report whether the record exists
		_, err := s.FindByID(ctx, id)
		return err
	}
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.posts.CountDocuments(ctx, bson.D{})
	return int(n), err
}

func (s *MongoStore) DropAll(ctx context.Context) error {
	return s.posts.Drop(ctx)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toMongoPost(p model.Post) mongoPost {
	return mongoPost{
		Title:   p.Title,
		Content: p.Content,
		Author:  mongoAuthor{FirstName: p.Author.FirstName, LastName: p.Author.LastName},
		Created: p.Created,
	}
}

func fromMongoPost(doc mongoPost) model.Post {
	return model.Post{
		ID:      doc.ID.Hex(),
		Title:   doc.Title,
		Content: doc.Content,
		Author:  model.Author{FirstName: doc.Author.FirstName, LastName: doc.Author.LastName},
		Created: doc.Created,
	}
}
