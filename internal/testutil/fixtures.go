package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/openscout/badgefinder/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a first-phase user (no username or password yet).
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName, email string) models.User {
	f.t.Helper()

	u := models.User{
		ID:               primitive.NewObjectID(),
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		MembershipNumber: "1234567",
		Badges:           []any{},
		EarnedBadges:     []models.EarnedBadge{},
		RequiredBadges:   []any{},
	}

	_, err := f.db.Collection("users").InsertOne(ctx, u)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateRegisteredUser inserts a fully registered user with credentials.
// The stored password is a bcrypt hash of the plaintext argument; MinCost
// keeps test runs fast.
func (f *Fixtures) CreateRegisteredUser(ctx context.Context, username, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	u := models.User{
		ID:               primitive.NewObjectID(),
		FirstName:        "Jordan",
		LastName:         "Smith",
		Email:            fmt.Sprintf("%s@example.com", username),
		MembershipNumber: "1234567",
		Username:         username,
		Password:         string(hash),
		Badges:           []any{},
		EarnedBadges:     []models.EarnedBadge{},
		RequiredBadges:   []any{},
	}

	_, err = f.db.Collection("users").InsertOne(ctx, u)
	if err != nil {
		f.t.Fatalf("failed to create registered test user: %v", err)
	}
	return u
}

// CreateBadge inserts a catalog badge.
func (f *Fixtures) CreateBadge(ctx context.Context, name string, categories ...string) models.Badge {
	f.t.Helper()

	if categories == nil {
		categories = []string{}
	}
	b := models.Badge{
		ID:         primitive.NewObjectID(),
		BadgeID:    primitive.NewObjectID().Hex(),
		BadgeName:  name,
		Categories: categories,
		ImageURL:   fmt.Sprintf("https://badges.example.com/%s.png", name),
	}

	_, err := f.db.Collection("Badges").InsertOne(ctx, b)
	if err != nil {
		f.t.Fatalf("failed to create test badge: %v", err)
	}
	return b
}

// CreateRequirement inserts a catalog requirement for the given badge.
func (f *Fixtures) CreateRequirement(ctx context.Context, badgeID, text string) models.Requirement {
	f.t.Helper()

	r := models.Requirement{
		ID:                primitive.NewObjectID(),
		BadgeID:           badgeID,
		RequirementID:     primitive.NewObjectID().Hex(),
		RequirementString: text,
	}

	_, err := f.db.Collection("Requirements").InsertOne(ctx, r)
	if err != nil {
		f.t.Fatalf("failed to create test requirement: %v", err)
	}
	return r
}

// GiveBadge appends an earned badge with the given requirement statuses to
// the user document directly, bypassing the service layer.
func (f *Fixtures) GiveBadge(ctx context.Context, userID primitive.ObjectID, badge models.EarnedBadge) {
	f.t.Helper()

	_, err := f.db.Collection("users").UpdateByID(ctx, userID,
		bson.M{"$push": bson.M{"earned_badges": badge}})
	if err != nil {
		f.t.Fatalf("failed to give badge to test user: %v", err)
	}
}

// Stamp returns a time truncated to milliseconds, matching BSON precision.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
