// Package user holds the validated in-memory representation of an account.
//
// Handlers pass raw, wire-shaped values (decoded JSON, so possibly the wrong
// type) into the mutators; every assignment is checked against the domain
// rules and rejected atomically with the matching errs kind. A User that
// exists in memory always holds valid state.
package user

import (
	"encoding/json"
	"reflect"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openscout/badgefinder/internal/domain/errs"
	"github.com/openscout/badgefinder/internal/domain/models"
)

// emailPattern: word chars/hyphens/dots in the local part, dot-separated
// domain labels, 1-7 letter TLD.
var emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{1,7}$`)

var digitPattern = regexp.MustCompile(`\d`)

// User is the domain entity. Fields are unexported; reads go through
// accessors and writes through the validating mutators.
type User struct {
	id               primitive.ObjectID
	firstName        string
	lastName         string
	email            string
	membershipNumber string
	username         string

	badges         []any
	earnedBadges   []models.EarnedBadge
	requiredBadges []any
	lastLogin      time.Time
}

// Params carries the typed field set for constructing a User.
type Params struct {
	ID               primitive.ObjectID
	FirstName        string
	LastName         string
	Email            string
	MembershipNumber string
	Username         string
	Badges           []any
	EarnedBadges     []models.EarnedBadge
	RequiredBadges   []any
	LastLogin        time.Time
}

// New validates every field and returns either a fully valid User or the
// first field's domain error. Username is optional because phase-one
// accounts have none yet; when present it must be non-empty.
func New(p Params) (*User, error) {
	u := &User{id: p.ID, username: p.Username, lastLogin: p.LastLogin}
	if err := u.SetFirstName(p.FirstName); err != nil {
		return nil, err
	}
	if err := u.SetLastName(p.LastName); err != nil {
		return nil, err
	}
	if err := u.SetEmail(p.Email); err != nil {
		return nil, err
	}
	if err := u.SetMembershipNumber(p.MembershipNumber); err != nil {
		return nil, err
	}
	if p.Badges == nil {
		p.Badges = []any{}
	}
	if p.EarnedBadges == nil {
		p.EarnedBadges = []models.EarnedBadge{}
	}
	if p.RequiredBadges == nil {
		p.RequiredBadges = []any{}
	}
	u.badges = p.Badges
	u.earnedBadges = p.EarnedBadges
	u.requiredBadges = p.RequiredBadges
	return u, nil
}

// FromDocument rebuilds the entity from a persisted document. The password
// hash is deliberately dropped; it never travels on the entity.
func FromDocument(doc models.User) (*User, error) {
	return New(Params{
		ID:               doc.ID,
		FirstName:        doc.FirstName,
		LastName:         doc.LastName,
		Email:            doc.Email,
		MembershipNumber: doc.MembershipNumber,
		Username:         doc.Username,
		Badges:           doc.Badges,
		EarnedBadges:     doc.EarnedBadges,
		RequiredBadges:   doc.RequiredBadges,
		LastLogin:        doc.LastLogin,
	})
}

func (u *User) ID() primitive.ObjectID { return u.id }
func (u *User) FirstName() string      { return u.firstName }
func (u *User) LastName() string       { return u.lastName }
func (u *User) FullName() string       { return u.firstName + " " + u.lastName }
func (u *User) Email() string          { return u.email }
func (u *User) MembershipNumber() string {
	return u.membershipNumber
}
func (u *User) Username() string     { return u.username }
func (u *User) LastLogin() time.Time { return u.lastLogin }

func (u *User) Badges() []any                      { return u.badges }
func (u *User) EarnedBadges() []models.EarnedBadge { return u.earnedBadges }
func (u *User) RequiredBadges() []any              { return u.requiredBadges }

// HasEarnedBadge reports whether badgeID is already in earned_badges.
func (u *User) HasEarnedBadge(badgeID string) bool {
	for _, b := range u.earnedBadges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// EarnedBadge returns the earned entry for badgeID.
func (u *User) EarnedBadge(badgeID string) (models.EarnedBadge, bool) {
	for _, b := range u.earnedBadges {
		if b.BadgeID == badgeID {
			return b, true
		}
	}
	return models.EarnedBadge{}, false
}

func (u *User) SetFirstName(v any) error {
	s, ok := v.(string)
	if !ok || s == "" {
		return errs.InvalidFirstName()
	}
	u.firstName = s
	return nil
}

func (u *User) SetLastName(v any) error {
	s, ok := v.(string)
	if !ok || s == "" {
		return errs.InvalidLastName()
	}
	u.lastName = s
	return nil
}

func (u *User) SetEmail(v any) error {
	s, ok := v.(string)
	if !ok || !emailPattern.MatchString(s) {
		return errs.InvalidEmail()
	}
	u.email = s
	return nil
}

func (u *User) SetMembershipNumber(v any) error {
	s, ok := v.(string)
	if !ok || s == "" {
		return errs.InvalidMembershipNumber()
	}
	u.membershipNumber = s
	return nil
}

func (u *User) SetUsername(v any) error {
	s, ok := v.(string)
	if !ok || s == "" {
		return errs.InvalidUsername()
	}
	u.username = s
	return nil
}

func (u *User) SetBadges(v any) error {
	out, ok := asAnySlice(v)
	if !ok {
		return errs.InvalidBadges()
	}
	u.badges = out
	return nil
}

func (u *User) SetRequiredBadges(v any) error {
	out, ok := asAnySlice(v)
	if !ok {
		return errs.InvalidRequiredBadges()
	}
	u.requiredBadges = out
	return nil
}

func (u *User) SetEarnedBadges(v any) error {
	switch t := v.(type) {
	case []models.EarnedBadge:
		out := make([]models.EarnedBadge, len(t))
		copy(out, t)
		u.earnedBadges = out
		return nil
	case nil:
		return errs.InvalidEarnedBadges()
	}
	raw, ok := asAnySlice(v)
	if !ok {
		return errs.InvalidEarnedBadges()
	}
	out := make([]models.EarnedBadge, 0, len(raw))
	for _, el := range raw {
		eb, ok := asEarnedBadge(el)
		if !ok {
			return errs.InvalidEarnedBadges()
		}
		out = append(out, eb)
	}
	u.earnedBadges = out
	return nil
}

// ValidatePassword applies the credential rules: a string of at least 8
// characters containing at least one digit. The entity never stores the
// password; hashing happens in the service layer.
func ValidatePassword(v any) error {
	s, ok := v.(string)
	if !ok || len(s) < 8 || !digitPattern.MatchString(s) {
		return errs.InvalidPassword()
	}
	return nil
}

// MarshalJSON serializes the accessor-exposed fields. There is no password
// on the entity, so nothing credential-shaped can leak here.
func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID               string               `json:"id"`
		FirstName        string               `json:"firstName"`
		LastName         string               `json:"lastName"`
		Email            string               `json:"email"`
		MembershipNumber string               `json:"membershipNumber"`
		Username         string               `json:"username,omitempty"`
		Badges           []any                `json:"badges"`
		EarnedBadges     []models.EarnedBadge `json:"earned_badges"`
		RequiredBadges   []any                `json:"required_badges"`
		LastLogin        *time.Time           `json:"lastLogin,omitempty"`
	}{
		ID:               u.id.Hex(),
		FirstName:        u.firstName,
		LastName:         u.lastName,
		Email:            u.email,
		MembershipNumber: u.membershipNumber,
		Username:         u.username,
		Badges:           u.badges,
		EarnedBadges:     u.earnedBadges,
		RequiredBadges:   u.requiredBadges,
		LastLogin:        lastLoginPtr(u.lastLogin),
	})
}

func lastLoginPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// asAnySlice accepts any slice or array value and copies it into []any.
func asAnySlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if out, ok := v.([]any); ok {
		cp := make([]any, len(out))
		copy(cp, out)
		return cp, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asEarnedBadge converts wire-shaped elements (typed values or decoded JSON
// maps) into an EarnedBadge.
func asEarnedBadge(v any) (models.EarnedBadge, bool) {
	switch t := v.(type) {
	case models.EarnedBadge:
		return t, true
	case *models.EarnedBadge:
		if t == nil {
			return models.EarnedBadge{}, false
		}
		return *t, true
	case map[string]any:
		eb := models.EarnedBadge{}
		id, ok := t["badge_id"].(string)
		if !ok {
			return models.EarnedBadge{}, false
		}
		eb.BadgeID = id
		reqs, _ := asAnySlice(t["requirements"])
		for _, r := range reqs {
			m, ok := r.(map[string]any)
			if !ok {
				return models.EarnedBadge{}, false
			}
			rs := models.RequirementStatus{}
			rs.RequirementID, _ = m["requirement_id"].(string)
			rs.RequirementString, _ = m["requirement_string"].(string)
			rs.Completed, _ = m["completed"].(bool)
			eb.Requirements = append(eb.Requirements, rs)
		}
		return eb, true
	default:
		return models.EarnedBadge{}, false
	}
}
