// internal/domain/models/badge.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Badge is a catalog entry. The catalog is read-only from the user core's
// perspective; badges are managed out of band.
type Badge struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BadgeID    string             `bson:"badge_id" json:"badge_id"`
	BadgeName  string             `bson:"badge_name" json:"badge_name"`
	Categories []string           `bson:"categories,omitempty" json:"categories,omitempty"`
	ImageURL   string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Requirement is one criterion belonging to a catalog badge.
type Requirement struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BadgeID           string             `bson:"badge_id" json:"badge_id"`
	RequirementID     string             `bson:"requirement_id" json:"requirement_id"`
	RequirementString string             `bson:"requirement_string" json:"requirement_string"`
}
