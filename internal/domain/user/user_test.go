package user_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/openscout/badgefinder/internal/domain/errs"
	"github.com/openscout/badgefinder/internal/domain/models"
	"github.com/openscout/badgefinder/internal/domain/user"
)

func validParams() user.Params {
	return user.Params{
		ID:               primitive.NewObjectID(),
		FirstName:        "John",
		LastName:         "Doe",
		Email:            "john.doe@test.com",
		MembershipNumber: "5678",
	}
}

func mustNew(t *testing.T, p user.Params) *user.User {
	t.Helper()
	u, err := user.New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return u
}

func TestAccessorsRoundTrip(t *testing.T) {
	p := validParams()
	p.Username = "johndoe"
	p.Badges = []any{"climbing"}
	p.EarnedBadges = []models.EarnedBadge{{BadgeID: strings.Repeat("a", 24)}}
	p.RequiredBadges = []any{"cooking"}

	u := mustNew(t, p)

	if u.FirstName() != "John" || u.LastName() != "Doe" {
		t.Errorf("name accessors: got %q %q", u.FirstName(), u.LastName())
	}
	if u.FullName() != "John Doe" {
		t.Errorf("FullName: got %q", u.FullName())
	}
	if u.Email() != "john.doe@test.com" {
		t.Errorf("Email: got %q", u.Email())
	}
	if u.MembershipNumber() != "5678" {
		t.Errorf("MembershipNumber: got %q", u.MembershipNumber())
	}
	if u.Username() != "johndoe" {
		t.Errorf("Username: got %q", u.Username())
	}
	if len(u.Badges()) != 1 || u.Badges()[0] != "climbing" {
		t.Errorf("Badges: got %v", u.Badges())
	}
	if len(u.EarnedBadges()) != 1 || u.EarnedBadges()[0].BadgeID != strings.Repeat("a", 24) {
		t.Errorf("EarnedBadges: got %v", u.EarnedBadges())
	}
	if len(u.RequiredBadges()) != 1 || u.RequiredBadges()[0] != "cooking" {
		t.Errorf("RequiredBadges: got %v", u.RequiredBadges())
	}
}

func TestStringFieldRejection(t *testing.T) {
	u := mustNew(t, validParams())

	tests := []struct {
		name string
		set  func(any) error
		want *errs.Error
	}{
		{"firstName", u.SetFirstName, errs.InvalidFirstName()},
		{"lastName", u.SetLastName, errs.InvalidLastName()},
		{"membershipNumber", u.SetMembershipNumber, errs.InvalidMembershipNumber()},
		{"username", u.SetUsername, errs.InvalidUsername()},
	}

	invalid := []any{"", 42, true, nil, map[string]any{}}

	for _, tt := range tests {
		for _, v := range invalid {
			if err := tt.set(v); !errors.Is(err, tt.want) {
				t.Errorf("%s = %#v: got %v, want %v", tt.name, v, err, tt.want)
			}
		}
		if err := tt.set("valid"); err != nil {
			t.Errorf("%s = \"valid\": unexpected error %v", tt.name, err)
		}
	}
}

func TestEmailValidation(t *testing.T) {
	u := mustNew(t, validParams())

	if err := u.SetEmail("a@b.c"); err != nil {
		t.Errorf("minimal valid email rejected: %v", err)
	}
	for _, v := range []any{"invalid", "", 7, "a@b", "a@b.toolongtld"} {
		if err := u.SetEmail(v); !errors.Is(err, errs.InvalidEmail()) {
			t.Errorf("email %#v: got %v, want InvalidEmailError", v, err)
		}
	}
}

func TestPasswordValidation(t *testing.T) {
	if err := user.ValidatePassword("abcd3fgh"); err != nil {
		t.Errorf("8-char password with digit rejected: %v", err)
	}
	for _, v := range []any{"abc3efg", "abcdefgh", "", 12345678} {
		if err := user.ValidatePassword(v); !errors.Is(err, errs.InvalidPassword()) {
			t.Errorf("password %#v: got %v, want InvalidPasswordError", v, err)
		}
	}
}

func TestArrayFieldRejection(t *testing.T) {
	u := mustNew(t, validParams())

	nonArrays := []any{7, true, map[string]any{"a": 1}, "nope", nil}

	for _, v := range nonArrays {
		if err := u.SetBadges(v); !errors.Is(err, errs.InvalidBadges()) {
			t.Errorf("SetBadges(%#v): got %v, want InvalidBadgesError", v, err)
		}
		if err := u.SetEarnedBadges(v); !errors.Is(err, errs.InvalidEarnedBadges()) {
			t.Errorf("SetEarnedBadges(%#v): got %v, want InvalidEarnedBadgesError", v, err)
		}
		if err := u.SetRequiredBadges(v); !errors.Is(err, errs.InvalidRequiredBadges()) {
			t.Errorf("SetRequiredBadges(%#v): got %v, want InvalidRequiredBadgesError", v, err)
		}
	}
}

func TestArrayFieldAcceptance(t *testing.T) {
	u := mustNew(t, validParams())

	if err := u.SetBadges([]any{}); err != nil {
		t.Errorf("SetBadges(empty): %v", err)
	}
	if got := u.Badges(); len(got) != 0 {
		t.Errorf("Badges after empty assignment: %v", got)
	}

	if err := u.SetBadges([]string{"a", "b"}); err != nil {
		t.Errorf("SetBadges(typed slice): %v", err)
	}
	if got := u.Badges(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Badges round-trip: %v", got)
	}

	if err := u.SetEarnedBadges([]models.EarnedBadge{{BadgeID: "x"}}); err != nil {
		t.Errorf("SetEarnedBadges(typed): %v", err)
	}
	if got := u.EarnedBadges(); len(got) != 1 || got[0].BadgeID != "x" {
		t.Errorf("EarnedBadges round-trip: %v", got)
	}

	// Wire-shaped input: decoded JSON maps.
	wire := []any{map[string]any{
		"badge_id": "y",
		"requirements": []any{map[string]any{
			"requirement_id":     "r1",
			"requirement_string": "do the thing",
			"completed":          false,
		}},
	}}
	if err := u.SetEarnedBadges(wire); err != nil {
		t.Errorf("SetEarnedBadges(wire): %v", err)
	}
	got := u.EarnedBadges()
	if len(got) != 1 || got[0].BadgeID != "y" || len(got[0].Requirements) != 1 {
		t.Fatalf("EarnedBadges wire round-trip: %v", got)
	}
	if got[0].Requirements[0].RequirementString != "do the thing" {
		t.Errorf("requirement string: got %q", got[0].Requirements[0].RequirementString)
	}

	if err := u.SetRequiredBadges([]any{"a"}); err != nil {
		t.Errorf("SetRequiredBadges: %v", err)
	}
}

func TestConstructionFailsAtomically(t *testing.T) {
	p := validParams()
	p.Email = "invalid"
	if _, err := user.New(p); !errors.Is(err, errs.InvalidEmail()) {
		t.Fatalf("New with bad email: got %v, want InvalidEmailError", err)
	}
}

func TestMutationRejectionLeavesStateIntact(t *testing.T) {
	u := mustNew(t, validParams())
	if err := u.SetFirstName(99); err == nil {
		t.Fatal("expected rejection")
	}
	if u.FirstName() != "John" {
		t.Errorf("state mutated on rejected assignment: %q", u.FirstName())
	}
}

func TestMarshalJSONOmitsPassword(t *testing.T) {
	doc := models.User{
		ID:               primitive.NewObjectID(),
		FirstName:        "John",
		LastName:         "Doe",
		Email:            "john.doe@test.com",
		MembershipNumber: "5678",
		Username:         "johndoe",
		Password:         "$2a$12$secret-hash",
	}
	u, err := user.FromDocument(doc)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(b), "secret-hash") || strings.Contains(string(b), "password") {
		t.Errorf("serialized entity exposes credential material: %s", b)
	}
	if !strings.Contains(string(b), `"username":"johndoe"`) {
		t.Errorf("serialized entity missing username: %s", b)
	}
}

func TestHasEarnedBadge(t *testing.T) {
	p := validParams()
	p.EarnedBadges = []models.EarnedBadge{{BadgeID: "abc"}}
	u := mustNew(t, p)

	if !u.HasEarnedBadge("abc") {
		t.Error("expected HasEarnedBadge(abc) to be true")
	}
	if u.HasEarnedBadge("zzz") {
		t.Error("expected HasEarnedBadge(zzz) to be false")
	}
	if _, ok := u.EarnedBadge("abc"); !ok {
		t.Error("expected EarnedBadge(abc) to be found")
	}
}
