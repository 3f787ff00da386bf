package userstore

import (
	"context"
	"errors"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/openscout/badgefinder/internal/app/system/htmlsanitize"
	"github.com/openscout/badgefinder/internal/app/system/normalize"
	"github.com/openscout/badgefinder/internal/app/system/schemas"
	"github.com/openscout/badgefinder/internal/domain/errs"
	"github.com/openscout/badgefinder/internal/domain/models"
	"github.com/openscout/badgefinder/internal/domain/user"
)

// Store is the user service: every operation validates its input against
// the matching schema before touching the database, and returns domain
// errors rather than driver errors.
type Store struct {
	users        *mongo.Collection
	badges       *mongo.Collection
	requirements *mongo.Collection
	log          *zap.Logger
}

// New wires the store to the users database and the badge catalog database.
func New(usersDB, catalogDB *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		users:        usersDB.Collection("users"),
		badges:       catalogDB.Collection("Badges"),
		requirements: catalogDB.Collection("Requirements"),
		log:          logger,
	}
}

// FindByID loads a user by its hex document id.
func (s *Store) FindByID(ctx context.Context, id string) (*user.User, error) {
	if err := schemas.FindByID.Validate(map[string]any{"_id": id}); err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.UserNotFound()
	}

	s.log.Info("searching for user", zap.String("user_id", id))
	var doc models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user.FromDocument(doc)
}

// FindOne loads the first user matching the criteria. Unknown criteria keys
// are allowed so callers can query any stored field.
func (s *Store) FindOne(ctx context.Context, criteria map[string]any) (*user.User, error) {
	if err := schemas.FindOne.Validate(criteria); err != nil {
		return nil, err
	}
	filter, err := filterFrom(criteria)
	if err != nil {
		return nil, err
	}

	var doc models.User
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user.FromDocument(doc)
}

// FindByEmail looks up a user by normalized email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := schemas.FindByEmail.Validate(map[string]any{"email": email}); err != nil {
		return nil, err
	}
	return s.FindOne(ctx, map[string]any{"email": normalize.Email(email)})
}

// Create validates and inserts a new user, returning the hex id of the new
// document.
func (s *Store) Create(ctx context.Context, fields map[string]any) (string, error) {
	if err := schemas.Create.Validate(fields); err != nil {
		return "", err
	}

	ent, err := user.New(user.Params{
		ID:               primitive.NewObjectID(),
		FirstName:        normalize.Name(htmlsanitize.Text(fields["firstName"].(string))),
		LastName:         normalize.Name(htmlsanitize.Text(fields["lastName"].(string))),
		Email:            normalize.Email(fields["email"].(string)),
		MembershipNumber: normalize.Name(fields["membershipNumber"].(string)),
	})
	if err != nil {
		return "", err
	}
	if v, ok := fields["badges"]; ok {
		if err := ent.SetBadges(v); err != nil {
			return "", err
		}
	}

	doc := models.User{
		ID:               ent.ID(),
		FirstName:        ent.FirstName(),
		LastName:         ent.LastName(),
		Email:            ent.Email(),
		MembershipNumber: ent.MembershipNumber(),
		Badges:           ent.Badges(),
		EarnedBadges:     ent.EarnedBadges(),
		RequiredBadges:   ent.RequiredBadges(),
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return "", errs.DuplicateEmail()
		}
		s.log.Error("insert user failed", zap.Error(err))
		return "", err
	}
	return ent.ID().Hex(), nil
}

// Update applies a partial $set to the first user matching the criteria.
func (s *Store) Update(ctx context.Context, criteria, fields map[string]any) error {
	_, err := s.FindOneAndUpdate(ctx, criteria, fields)
	return err
}

// FindOneAndUpdate applies a partial $set and returns the updated user.
// A criteria that matches nothing is a not-found error; a matched update
// that changes no field values succeeds and returns the unchanged user.
func (s *Store) FindOneAndUpdate(ctx context.Context, criteria, fields map[string]any) (*user.User, error) {
	if err := schemas.FindOne.Validate(criteria); err != nil {
		return nil, err
	}
	if err := schemas.FindOneAndUpdate.Validate(fields); err != nil {
		return nil, err
	}
	filter, err := filterFrom(criteria)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	for k, v := range fields {
		switch k {
		case "firstName", "lastName":
			set[k] = normalize.Name(htmlsanitize.Text(v.(string)))
		case "email":
			set[k] = normalize.Email(v.(string))
		case "username":
			set[k] = normalize.Username(v.(string))
		default:
			set[k] = v
		}
	}
	if len(set) == 0 {
		return nil, errs.New(errs.KindDomain, "update requires at least one field")
	}

	res, err := s.users.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, dupKind(err, set)
		}
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, errs.UserNotFound()
	}

	var doc models.User
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user.FromDocument(doc)
}

// dupKind resolves which unique index a duplicate-key error tripped. The
// users collection carries two: the email index and the partial username
// index, so the kind follows the colliding index name, falling back to
// whichever of the two fields the update actually wrote.
func dupKind(err error, set bson.M) *errs.Error {
	msg := err.Error()
	_, hasUsername := set["username"]
	_, hasEmail := set["email"]
	switch {
	case hasUsername && strings.Contains(msg, "uniq_users_username"):
		return errs.DuplicateUsername()
	case hasUsername && !hasEmail:
		return errs.DuplicateUsername()
	default:
		return errs.DuplicateEmail()
	}
}

// FindOneAndUpdateWithOperations applies raw update operators, optionally
// with array filters, and returns the updated user. Operators are checked
// against the allowed set first.
func (s *Store) FindOneAndUpdateWithOperations(ctx context.Context, criteria map[string]any, ops bson.M, arrayFilters []any) (*user.User, error) {
	if err := schemas.FindOne.Validate(criteria); err != nil {
		return nil, err
	}
	if err := schemas.ValidateOperations(ops); err != nil {
		return nil, err
	}
	filter, err := filterFrom(criteria)
	if err != nil {
		return nil, err
	}

	opts := options.Update()
	if len(arrayFilters) > 0 {
		opts.SetArrayFilters(options.ArrayFilters{Filters: arrayFilters})
	}

	res, err := s.users.UpdateOne(ctx, filter, ops, opts)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, errs.UserNotFound()
	}

	var doc models.User
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user.FromDocument(doc)
}

// DeleteByID removes a user by its hex document id.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if err := schemas.DeleteByID.Validate(map[string]any{"_id": id}); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.UserNotFound()
	}

	s.log.Info("deleting user", zap.String("user_id", id))
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		s.log.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if res.DeletedCount == 0 {
		return errs.UserNotFound()
	}
	return nil
}

// filterFrom converts criteria to a bson filter, translating a hex "_id"
// into an ObjectID.
func filterFrom(criteria map[string]any) (bson.M, error) {
	filter := bson.M{}
	for k, v := range criteria {
		if k == "_id" {
			if hex, ok := v.(string); ok {
				oid, err := primitive.ObjectIDFromHex(hex)
				if err != nil {
					return nil, errs.UserNotFound()
				}
				filter[k] = oid
				continue
			}
		}
		filter[k] = v
	}
	return filter, nil
}
