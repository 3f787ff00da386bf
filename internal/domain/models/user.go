// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the persistence shape of a badge-tracker account.
//
// Accounts are created in two phases: primary signup writes the profile
// fields only; secondary signup fills in username, password hash, and the
// badge arrays. Password is the bcrypt hash and is never serialized to JSON.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName        string             `bson:"firstName" json:"firstName"`
	LastName         string             `bson:"lastName" json:"lastName"`
	Email            string             `bson:"email" json:"email"`
	MembershipNumber string             `bson:"membershipNumber" json:"membershipNumber"`
	Username         string             `bson:"username,omitempty" json:"username,omitempty"`
	Password         string             `bson:"password,omitempty" json:"-"`

	Badges         []any         `bson:"badges" json:"badges"`
	EarnedBadges   []EarnedBadge `bson:"earned_badges" json:"earned_badges"`
	RequiredBadges []any         `bson:"required_badges" json:"required_badges"`

	LastLogin time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}

// EarnedBadge is a user's personal snapshot of a badge: the badge reference
// plus the requirement set as it stood when the badge was earned.
type EarnedBadge struct {
	BadgeID      string              `bson:"badge_id" json:"badge_id"`
	Requirements []RequirementStatus `bson:"requirements" json:"requirements"`
}

// RequirementStatus tracks one requirement's completion inside an earned
// badge. The string is copied from the catalog at earn time so later catalog
// edits do not rewrite history.
type RequirementStatus struct {
	RequirementID     string `bson:"requirement_id" json:"requirement_id"`
	RequirementString string `bson:"requirement_string" json:"requirement_string"`
	Completed         bool   `bson:"completed" json:"completed"`
}
