package userstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/openscout/badgefinder/internal/app/system/htmlsanitize"
	"github.com/openscout/badgefinder/internal/app/system/schemas"
	"github.com/openscout/badgefinder/internal/domain/errs"
	"github.com/openscout/badgefinder/internal/domain/models"
	"github.com/openscout/badgefinder/internal/domain/user"
)

// AddBadge grants the user a badge from the catalog. The badge's
// requirements are snapshotted onto the user with completed=false, so later
// catalog edits don't rewrite history. The has-badge check and the push are
// two steps; concurrent grants of the same badge can slip through, which is
// acceptable for this workload.
func (s *Store) AddBadge(ctx context.Context, userID, badgeID string) (*user.User, error) {
	if err := schemas.AddBadge.Validate(map[string]any{
		"userId":  userID,
		"badgeId": badgeID,
	}); err != nil {
		return nil, err
	}

	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.HasEarnedBadge(badgeID) {
		return nil, errs.AlreadyHasBadge()
	}

	if err := s.badges.FindOne(ctx, bson.M{"badge_id": badgeID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.BadgeNotFound()
		}
		return nil, err
	}

	cur, err := s.requirements.Find(ctx, bson.M{"badge_id": badgeID})
	if err != nil {
		return nil, err
	}
	var reqs []models.Requirement
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}

	earned := models.EarnedBadge{
		BadgeID:      badgeID,
		Requirements: make([]models.RequirementStatus, 0, len(reqs)),
	}
	for _, r := range reqs {
		earned.Requirements = append(earned.Requirements, models.RequirementStatus{
			RequirementID:     r.RequirementID,
			RequirementString: htmlsanitize.Text(r.RequirementString),
			Completed:         false,
		})
	}

	s.log.Info("adding badge",
		zap.String("user_id", userID),
		zap.String("badge_id", badgeID),
		zap.Int("requirements", len(earned.Requirements)))

	return s.FindOneAndUpdateWithOperations(ctx,
		map[string]any{"_id": userID},
		bson.M{"$push": bson.M{"earned_badges": earned}},
		nil)
}

// RemoveBadge takes an earned badge away from the user.
func (s *Store) RemoveBadge(ctx context.Context, userID, badgeID string) (*user.User, error) {
	if err := schemas.RemoveBadge.Validate(map[string]any{
		"userId":  userID,
		"badgeId": badgeID,
	}); err != nil {
		return nil, err
	}

	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasEarnedBadge(badgeID) {
		return nil, errs.DoesNotHaveBadge()
	}

	s.log.Info("removing badge",
		zap.String("user_id", userID),
		zap.String("badge_id", badgeID))

	return s.FindOneAndUpdateWithOperations(ctx,
		map[string]any{"_id": userID},
		bson.M{"$pull": bson.M{"earned_badges": bson.M{"badge_id": badgeID}}},
		nil)
}

// UpdateBadgeRequirement flips the completed flag on one requirement of one
// earned badge, using array filters so only that leaf changes.
func (s *Store) UpdateBadgeRequirement(ctx context.Context, userID, badgeID, requirementID string, completed bool) (*user.User, error) {
	if err := schemas.UpdateBadgeRequirement.Validate(map[string]any{
		"userId":        userID,
		"badgeId":       badgeID,
		"requirementId": requirementID,
		"completed":     completed,
	}); err != nil {
		return nil, err
	}

	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	b, ok := u.EarnedBadge(badgeID)
	if !ok {
		return nil, errs.BadgeNotFound()
	}
	if len(b.Requirements) == 0 {
		return nil, errs.New(errs.KindRequirementNotFound, "No requirements for badge")
	}
	found := false
	for _, r := range b.Requirements {
		if r.RequirementID == requirementID {
			found = true
			break
		}
	}
	if !found {
		return nil, errs.RequirementNotFound()
	}

	s.log.Info("updating badge requirement",
		zap.String("user_id", userID),
		zap.String("badge_id", badgeID),
		zap.String("requirement_id", requirementID),
		zap.Bool("completed", completed))

	ops := bson.M{"$set": bson.M{
		"earned_badges.$[badge].requirements.$[requirement].completed": completed,
	}}
	filters := []any{
		bson.M{"badge.badge_id": badgeID},
		bson.M{"requirement.requirement_id": requirementID},
	}
	return s.FindOneAndUpdateWithOperations(ctx, map[string]any{"_id": userID}, ops, filters)
}
