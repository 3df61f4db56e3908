// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/normalize"
	"github.com/dalemusser/strataleads/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateLoginID is returned when the email is already taken.
	ErrDuplicateLoginID = errors.New("a user with this email already exists")
	errBadMethod        = errors.New(`auth_method must be "password"|"google"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollUsers)}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByLoginID looks a user up by email, ignoring case and diacritics.
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"login_id_ci": text.Fold(normalize.Email(loginID))})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user after normalizing the email.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.AuthMethod != models.AuthPassword && u.AuthMethod != models.AuthGoogle {
		return models.User{}, errBadMethod
	}
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.LoginID = normalize.Email(u.LoginID)
	u.LoginIDCI = text.Fold(u.LoginID)
	if u.Status == "" {
		u.Status = models.UserActive
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateLoginID
		}
		return models.User{}, err
	}
	return u, nil
}

// TouchLogin records a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}})
	return err
}

// SetPassword replaces the bcrypt hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus enables or disables an account.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	return err
}

// Count returns the number of accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
