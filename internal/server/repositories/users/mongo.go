package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const usersCollection = "users"

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	Songs        []int64            `bson:"songs"`
	Reviews      []int64            `bson:"reviews"`
	Photos       []int64            `bson:"photos"`
}

func (d *mongoUser) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Songs:        nonNil(d.Songs),
		Reviews:      nonNil(d.Reviews),
		Photos:       nonNil(d.Photos),
	}
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(usersCollection)}
}

// ConnectMongo opens a client and checks the primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (string, error) {
	doc := mongoUser{
		UserID:       user.UserID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Songs:        nonNil(user.Songs),
		Reviews:      nonNil(user.Reviews),
		Photos:       nonNil(user.Photos),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("user %q: %w", user.UserID, common.ErrAlreadyExists)
	}
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *MongoRepository) GetByUserID(ctx context.Context, userID string, opts ...FetchOption) (*models.User, error) {
	var doc mongoUser
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}, findOneOptions(applyFetchOptions(opts))).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func findOneOptions(o fetchOptions) *options.FindOneOptions {
	findOpts := options.FindOne()
	if !o.withPassword {
		findOpts.SetProjection(bson.M{"password_hash": 0})
	}
	return findOpts
}

func (r *MongoRepository) AppendOwnedRecord(ctx context.Context, userID string, kind models.RecordKind, id int64) error {
	field := kind.OwnershipField()
	if field == "" {
		return fmt.Errorf("unknown record kind %q", kind)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$push": bson.M{field: id}},
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %q: %w", userID, common.ErrorNotFound)
	}
	return nil
}

// EnsureIndexes creates the unique index on user_id.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}
