// Package badgestore reads the badge catalog: badges, their categories,
// and their requirements. The catalog is maintained elsewhere, so this
// store has no write operations.
package badgestore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/openscout/badgefinder/internal/domain/errs"
	"github.com/openscout/badgefinder/internal/domain/models"
)

type Store struct {
	badges       *mongo.Collection
	requirements *mongo.Collection
	log          *zap.Logger
}

func New(catalogDB *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		badges:       catalogDB.Collection("Badges"),
		requirements: catalogDB.Collection("Requirements"),
		log:          logger,
	}
}

// All returns every badge in the catalog.
func (s *Store) All(ctx context.Context) ([]models.Badge, error) {
	cur, err := s.badges.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := []models.Badge{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByIDs returns the catalog badges with the given badge ids. Unknown ids
// are silently dropped.
func (s *Store) ByIDs(ctx context.Context, ids []string) ([]models.Badge, error) {
	out := []models.Badge{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.badges.Find(ctx, bson.M{"badge_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByName returns the first badge whose name contains the given text,
// case-insensitively.
func (s *Store) ByName(ctx context.Context, name string) (*models.Badge, error) {
	s.log.Info("searching for badge", zap.String("name", name))

	filter := bson.M{"badge_name": bson.M{
		"$regex":   fmt.Sprintf(".*%s.*", regexp.QuoteMeta(name)),
		"$options": "i",
	}}
	var b models.Badge
	if err := s.badges.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.BadgeNotFound()
		}
		return nil, err
	}
	return &b, nil
}

// ByCategory returns the badges tagged with the given category. The match
// is a case-insensitive whole word, so "craft" does not match "aircraft".
func (s *Store) ByCategory(ctx context.Context, category string) ([]models.Badge, error) {
	s.log.Info("searching for badges by category", zap.String("category", category))

	filter := bson.M{"categories": bson.M{
		"$regex":   fmt.Sprintf(`.*\b%s\b.*`, regexp.QuoteMeta(category)),
		"$options": "i",
	}}
	cur, err := s.badges.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var out []models.Badge
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errs.New(errs.KindBadgeNotFound, "No badges found in this category")
	}
	return out, nil
}

// ByRequirement returns the badges whose requirement wording mentions the
// query text.
func (s *Store) ByRequirement(ctx context.Context, query string) ([]models.Badge, error) {
	s.log.Info("searching for badges by requirement", zap.String("query", query))

	filter := bson.M{"requirement_string": bson.M{
		"$regex":   fmt.Sprintf(".*%s.*", regexp.QuoteMeta(query)),
		"$options": "i",
	}}
	cur, err := s.requirements.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var reqs []models.Requirement
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	ids := []string{}
	for _, r := range reqs {
		if _, ok := seen[r.BadgeID]; ok {
			continue
		}
		seen[r.BadgeID] = struct{}{}
		ids = append(ids, r.BadgeID)
	}

	out := []models.Badge{}
	if len(ids) == 0 {
		return out, nil
	}
	bcur, err := s.badges.Find(ctx, bson.M{"badge_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := bcur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RequirementsForBadge returns the catalog requirements for one badge.
func (s *Store) RequirementsForBadge(ctx context.Context, badgeID string) ([]models.Requirement, error) {
	cur, err := s.requirements.Find(ctx, bson.M{"badge_id": badgeID})
	if err != nil {
		return nil, err
	}
	out := []models.Requirement{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
