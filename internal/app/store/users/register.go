package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openscout/badgefinder/internal/app/system/normalize"
	"github.com/openscout/badgefinder/internal/app/system/schemas"
	"github.com/openscout/badgefinder/internal/domain/errs"
	"github.com/openscout/badgefinder/internal/domain/models"
	"github.com/openscout/badgefinder/internal/domain/user"
)

const bcryptCost = 12

// RegisterUser creates a first-phase account holding only identity fields.
// Credentials and badge lists arrive later via RegisterSecondaryUser.
func (s *Store) RegisterUser(ctx context.Context, fields map[string]any) (*user.User, error) {
	if err := schemas.RegisterUser.Validate(fields); err != nil {
		return nil, err
	}

	s.log.Info("registering user", zap.Any("email", fields["email"]))
	id, err := s.Create(ctx, map[string]any{
		"firstName":        fields["firstName"],
		"lastName":         fields["lastName"],
		"email":            fields["email"],
		"membershipNumber": fields["membershipNumber"],
		"badges":           []any{},
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// RegisterSecondaryUser completes signup: it sets the username, password
// hash, and badge lists on an existing first-phase account. The unique
// username index turns a race on the same name into a duplicate error.
func (s *Store) RegisterSecondaryUser(ctx context.Context, fields map[string]any) (*user.User, error) {
	if err := schemas.RegisterSecondaryUser.Validate(fields); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(fields["_id"].(string))
	if err != nil {
		return nil, errs.UserNotFound()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fields["password"].(string)), bcryptCost)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"username":        normalize.Username(fields["username"].(string)),
		"password":        string(hash),
		"earned_badges":   fields["earned_badges"],
		"required_badges": fields["required_badges"],
	}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, errs.DuplicateUsername()
		}
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, errs.UserNotFound()
	}

	s.log.Info("completed secondary registration", zap.String("user_id", oid.Hex()))
	return s.FindByID(ctx, oid.Hex())
}

// AuthenticateUser checks the credentials and stamps the last login time.
// Every failure mode reports the same invalid-credentials error so callers
// cannot probe which usernames exist.
func (s *Store) AuthenticateUser(ctx context.Context, username, password string) (*user.User, error) {
	if err := schemas.AuthenticateUser.Validate(map[string]any{
		"username": username,
		"password": password,
	}); err != nil {
		return nil, err
	}

	var doc models.User
	err := s.users.FindOne(ctx, bson.M{"username": normalize.Username(username)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.InvalidCredentials()
		}
		return nil, err
	}
	if doc.Password == "" {
		// First-phase account with no credentials yet.
		return nil, errs.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(doc.Password), []byte(password)); err != nil {
		return nil, errs.InvalidCredentials()
	}

	now := time.Now().UTC()
	if _, err := s.users.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{"lastLogin": now}}); err != nil {
		s.log.Error("stamping last login failed", zap.String("user_id", doc.ID.Hex()), zap.Error(err))
		return nil, err
	}
	doc.LastLogin = now

	s.log.Info("user authenticated", zap.String("user_id", doc.ID.Hex()))
	return user.FromDocument(doc)
}
