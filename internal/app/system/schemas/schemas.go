// Package schemas holds the declarative, per-operation validation schema
// set. Every service operation validates its wire-shaped input here before
// any persistence access; each field rule is bound to exactly one domain
// error kind, so a failing field always surfaces the same error.
//
// Schemas validate wire input (decoded JSON, possibly mistyped); the user
// entity independently re-validates in-memory assignment. Both layers must
// reject invalid data on their own.
package schemas

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/openscout/badgefinder/internal/domain/errs"
)

// Field binds one input field to a check and a presence requirement.
type Field struct {
	Name     string
	Required bool
	Check    FieldCheck
}

// Schema is an ordered field table for one service operation. Fields are
// evaluated in declaration order and the first failure wins, which keeps
// error selection deterministic.
type Schema struct {
	Fields       []Field
	AllowUnknown bool
}

// Validate checks input against the schema. A nil input is treated as an
// empty document.
func (s Schema) Validate(input map[string]any) error {
	for _, f := range s.Fields {
		v, present := input[f.Name]
		if !present {
			if f.Required {
				return f.Check(nil)
			}
			continue
		}
		if err := f.Check(v); err != nil {
			return err
		}
	}
	if s.AllowUnknown {
		return nil
	}
	known := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		known[f.Name] = struct{}{}
	}
	for k := range input {
		if _, ok := known[k]; !ok {
			return errs.New(errs.KindDomain, fmt.Sprintf("unknown field %q", k))
		}
	}
	return nil
}

// Per-operation schemas. The id field of a lookup binds to the matching
// "not found" kind: a malformed id can never match a stored document, so it
// is reported the same way as an absent one.

var FindByID = Schema{
	Fields: []Field{
		{Name: "_id", Required: true, Check: objectID(errs.UserNotFound)},
	},
}

var FindOne = Schema{
	AllowUnknown: true,
	Fields: []Field{
		{Name: "_id", Check: objectID(errs.UserNotFound)},
		{Name: "firstName", Check: nonEmptyString(errs.InvalidFirstName)},
		{Name: "lastName", Check: nonEmptyString(errs.InvalidLastName)},
		{Name: "email", Check: emailAddress()},
		{Name: "membershipNumber", Check: nonEmptyString(errs.InvalidMembershipNumber)},
		{Name: "username", Check: nonEmptyString(errs.InvalidUsername)},
		{Name: "badges", Check: array(errs.InvalidBadges)},
		{Name: "earned_badges", Check: array(errs.InvalidEarnedBadges)},
		{Name: "required_badges", Check: array(errs.InvalidRequiredBadges)},
	},
}

var FindByEmail = Schema{
	Fields: []Field{
		{Name: "email", Required: true, Check: emailAddress()},
	},
}

var Create = Schema{
	Fields: []Field{
		{Name: "firstName", Required: true, Check: nonEmptyString(errs.InvalidFirstName)},
		{Name: "lastName", Required: true, Check: nonEmptyString(errs.InvalidLastName)},
		{Name: "email", Required: true, Check: emailAddress()},
		{Name: "membershipNumber", Required: true, Check: nonEmptyString(errs.InvalidMembershipNumber)},
		{Name: "badges", Check: array(errs.InvalidBadges)},
	},
}

// Update treats every field as optional (partial update) but still rejects
// unknown fields.
var Update = Schema{
	Fields: []Field{
		{Name: "_id", Check: objectID(errs.UserNotFound)},
		{Name: "firstName", Check: nonEmptyString(errs.InvalidFirstName)},
		{Name: "lastName", Check: nonEmptyString(errs.InvalidLastName)},
		{Name: "email", Check: emailAddress()},
		{Name: "membershipNumber", Check: nonEmptyString(errs.InvalidMembershipNumber)},
		{Name: "username", Check: nonEmptyString(errs.InvalidUsername)},
		{Name: "password", Check: password()},
		{Name: "badges", Check: array(errs.InvalidBadges)},
		{Name: "earned_badges", Check: array(errs.InvalidEarnedBadges)},
		{Name: "required_badges", Check: array(errs.InvalidRequiredBadges)},
		{Name: "lastLogin", Check: func(any) error { return nil }},
	},
}

var FindOneAndUpdate = Update

var DeleteByID = Schema{
	Fields: []Field{
		{Name: "_id", Required: true, Check: objectID(errs.UserNotFound)},
	},
}

var RegisterUser = Schema{
	Fields: []Field{
		{Name: "firstName", Required: true, Check: nonEmptyString(errs.InvalidFirstName)},
		{Name: "lastName", Required: true, Check: nonEmptyString(errs.InvalidLastName)},
		{Name: "email", Required: true, Check: emailAddress()},
		{Name: "membershipNumber", Required: true, Check: nonEmptyString(errs.InvalidMembershipNumber)},
	},
}

var RegisterSecondaryUser = Schema{
	Fields: []Field{
		{Name: "_id", Required: true, Check: objectID(errs.UserNotFound)},
		{Name: "username", Required: true, Check: nonEmptyString(errs.InvalidUsername)},
		{Name: "password", Required: true, Check: password()},
		{Name: "earned_badges", Required: true, Check: array(errs.InvalidEarnedBadges)},
		{Name: "required_badges", Required: true, Check: array(errs.InvalidRequiredBadges)},
	},
}

var AuthenticateUser = Schema{
	Fields: []Field{
		{Name: "username", Required: true, Check: nonEmptyString(errs.InvalidUsername)},
		{Name: "password", Required: true, Check: password()},
	},
}

var AddBadge = Schema{
	Fields: []Field{
		{Name: "userId", Required: true, Check: objectID(errs.UserNotFound)},
		{Name: "badgeId", Required: true, Check: objectID(errs.BadgeNotFound)},
	},
}

var RemoveBadge = AddBadge

var UpdateBadgeRequirement = Schema{
	Fields: []Field{
		{Name: "userId", Required: true, Check: objectID(errs.UserNotFound)},
		{Name: "badgeId", Required: true, Check: objectID(errs.BadgeNotFound)},
		{Name: "requirementId", Required: true, Check: objectID(errs.RequirementNotFound)},
		{Name: "completed", Required: true, Check: boolean()},
	},
}

// operators is the closed set of update operators the compound-update
// operation accepts.
var operators = map[string]struct{}{
	"$set":      {},
	"$push":     {},
	"$inc":      {},
	"$addToSet": {},
	"$pull":     {},
}

// ValidateOperations checks a compound update operator map: only the fixed
// operator set is allowed, and each operator's payload must be a mapping
// from field path to value. $inc payload values must be numeric.
func ValidateOperations(ops map[string]any) error {
	if len(ops) == 0 {
		return errs.New(errs.KindDomain, "update requires at least one operator")
	}
	for op, payload := range ops {
		if _, ok := operators[op]; !ok {
			return errs.New(errs.KindDomain, fmt.Sprintf("unsupported update operator %q", op))
		}
		fields, ok := payloadMap(payload)
		if !ok {
			return errs.New(errs.KindDomain, fmt.Sprintf("operator %q requires a field-to-value mapping", op))
		}
		if op != "$inc" {
			continue
		}
		for path, v := range fields {
			if !isNumeric(v) {
				return errs.New(errs.KindDomain, fmt.Sprintf("$inc value for %q must be numeric", path))
			}
		}
	}
	return nil
}

func payloadMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, len(t) > 0
	case bson.M:
		return t, len(t) > 0
	default:
		return nil, false
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}
