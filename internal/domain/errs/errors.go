// Package errs defines the closed set of domain error kinds for the
// user/badge core. Every validation or service failure surfaces as an
// *Error carrying a Kind discriminant, so transport adapters can map
// failures to status codes without inspecting message text.
package errs

import "errors"

// Kind identifies which domain error case occurred.
type Kind int

const (
	KindDomain Kind = iota // generic service-level failure
	KindUserNotFound
	KindBadgeNotFound
	KindRequirementNotFound
	KindAlreadyHasBadge
	KindDoesNotHaveBadge
	KindInvalidFirstName
	KindInvalidLastName
	KindInvalidEmail
	KindInvalidMembershipNumber
	KindInvalidUsername
	KindInvalidBadges
	KindInvalidEarnedBadges
	KindInvalidRequiredBadges
	KindInvalidPassword
	KindInvalidCredentials
	KindDuplicateUsername
	KindDuplicateEmail
)

// String returns the kind's wire-stable name.
func (k Kind) String() string {
	switch k {
	case KindUserNotFound:
		return "UserNotFoundError"
	case KindBadgeNotFound:
		return "BadgeNotFoundError"
	case KindRequirementNotFound:
		return "RequirementNotFoundError"
	case KindAlreadyHasBadge:
		return "AlreadyHasBadgeError"
	case KindDoesNotHaveBadge:
		return "DoesNotHaveBadgeError"
	case KindInvalidFirstName:
		return "InvalidFirstNameError"
	case KindInvalidLastName:
		return "InvalidLastNameError"
	case KindInvalidEmail:
		return "InvalidEmailError"
	case KindInvalidMembershipNumber:
		return "InvalidMembershipNumberError"
	case KindInvalidUsername:
		return "InvalidUsernameError"
	case KindInvalidBadges:
		return "InvalidBadgesError"
	case KindInvalidEarnedBadges:
		return "InvalidEarnedBadgesError"
	case KindInvalidRequiredBadges:
		return "InvalidRequiredBadgesError"
	case KindInvalidPassword:
		return "InvalidPasswordError"
	case KindInvalidCredentials:
		return "InvalidCredentialsError"
	case KindDuplicateUsername:
		return "DuplicateUsernameError"
	case KindDuplicateEmail:
		return "DuplicateEmailError"
	default:
		return "UserError"
	}
}

// Error is the uniform domain error value.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds a domain error with an explicit kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the kind from err. The second return is false when err
// is not a domain error (an unclassified failure).
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return KindDomain, false
}

// Is lets errors.Is match two domain errors by kind alone, so callers can
// compare against the fixed constructors below without minding messages.
func (e *Error) Is(target error) bool {
	var de *Error
	if !errors.As(target, &de) {
		return false
	}
	return e.Kind == de.Kind
}

// Fixed-message constructors. Field validation failures carry one canonical
// message per kind; not-found and badge-state kinds accept context messages
// at the call site via New.

func UserNotFound() *Error  { return New(KindUserNotFound, "User not found") }
func BadgeNotFound() *Error { return New(KindBadgeNotFound, "Badge not found") }
func RequirementNotFound() *Error {
	return New(KindRequirementNotFound, "Requirement not found")
}
func AlreadyHasBadge() *Error {
	return New(KindAlreadyHasBadge, "User already has this badge")
}
func DoesNotHaveBadge() *Error {
	return New(KindDoesNotHaveBadge, "User does not have this badge")
}

func InvalidFirstName() *Error {
	return New(KindInvalidFirstName, "firstName must be a non-empty string")
}
func InvalidLastName() *Error {
	return New(KindInvalidLastName, "lastName must be a non-empty string")
}
func InvalidEmail() *Error {
	return New(KindInvalidEmail, "email must be a valid email address")
}
func InvalidMembershipNumber() *Error {
	return New(KindInvalidMembershipNumber, "membershipNumber must be a non-empty string")
}
func InvalidUsername() *Error {
	return New(KindInvalidUsername, "username must be a non-empty string")
}
func InvalidBadges() *Error {
	return New(KindInvalidBadges, "badges must be an array")
}
func InvalidEarnedBadges() *Error {
	return New(KindInvalidEarnedBadges, "earned_badges must be an array")
}
func InvalidRequiredBadges() *Error {
	return New(KindInvalidRequiredBadges, "required_badges must be an array")
}
func InvalidPassword() *Error {
	return New(KindInvalidPassword, "password must be a string of at least 8 characters")
}
func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "invalid username or password")
}
func DuplicateUsername() *Error {
	return New(KindDuplicateUsername, "username already exists")
}
func DuplicateEmail() *Error {
	return New(KindDuplicateEmail, "a user with this email already exists")
}
