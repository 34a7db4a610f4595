package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/internal/domain/types"
)

const userCollection = "users"

// UserRepo is the credential-store adapter. Emails are stored lowercased and
// uniqueness is enforced by a unique index created at startup.
type UserRepo struct {
	coll      *mongo.Collection
	opTimeout time.Duration
}

func NewUserRepo(db *mongo.Database, opTimeout time.Duration) *UserRepo {
	return &UserRepo{
		coll:      db.Collection(userCollection),
		opTimeout: opTimeout,
	}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique email index: %w", err)
	}

	return nil
}

// CreateUser inserts a new user document and returns its assigned ID.
func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) (string, error) {
	if user == nil {
		return "", errors.New("user is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := bson.D{
		{Key: "email", Value: user.Email},
		{Key: "password", Value: user.Password},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		// A concurrent registration can win the race past the service-level
		// lookup; the unique index is the authority.
		if mongo.IsDuplicateKeyError(err) {
			return "", types.ErrEmailAlreadyRegistered
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted ID type")
	}

	return oid.Hex(), nil
}

// GetUserByEmail returns the user with the given email, or nil if absent.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var doc struct {
		ID        bson.ObjectID `bson:"_id"`
		Email     string        `bson:"email"`
		Password  string        `bson:"password"`
		CreatedAt time.Time     `bson:"created_at"`
		UpdatedAt time.Time     `bson:"updated_at"`
	}

	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &models.User{
		ID:        doc.ID.Hex(),
		Email:     doc.Email,
		Password:  doc.Password,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}
