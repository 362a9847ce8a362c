package entity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Widedbounou/SK-B/pkg/apperror"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+\d{3} \d{3} \d{3} \d{3}$`)
)

const (
	maxEmailLen    = 50
	maxUsernameLen = 50
	maxSecretLen   = 128
)

// Account is the public profile embedded in a User.
type Account struct {
	Username   string    `json:"username"`
	FirstName  string    `json:"firstName,omitempty"`
	LastName   string    `json:"lastName,omitempty"`
	Location   string    `json:"location,omitempty"`
	Avatar     *MediaRef `json:"avatar,omitempty"`
	Phone      string    `json:"phone"`
	Newsletter bool      `json:"newsletter"`
}

// User is the aggregate root for accounts.
// The password itself is never stored, only Salt and Hash derived from it.
type User struct {
	ID                string
	Email             string
	IsVerified        bool
	Token             string
	VerificationToken string
	Salt              string
	Hash              string
	Account           Account
	Role              Role
	UserType          UserType
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Revision          int64
	CreatedOffers     []string
	PurchasedItems    []string
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Normalize trims fields the way they are persisted and fills enum defaults.
func (u *User) Normalize() {
	u.Email = strings.TrimSpace(u.Email)
	u.Account.Username = strings.TrimSpace(u.Account.Username)
	if u.Role == "" {
		u.Role = RoleBuyer
	}
	if u.UserType == "" {
		u.UserType = UserTypeIndividual
	}
}

// Validate checks the stored-record constraints.
func (u *User) Validate() error {
	switch n := utf8.RuneCountInString(u.Email); {
	case n == 0:
		return apperror.Validation("email is required")
	case n > maxEmailLen:
		return apperror.Validation("email must be at most 50 characters")
	}
	if !emailPattern.MatchString(u.Email) {
		return apperror.Validation(u.Email + " is not a valid email address")
	}
	if u.Token == "" || len(u.Token) > maxSecretLen {
		return apperror.Validation("invalid session token")
	}
	if u.Salt == "" || len(u.Salt) > maxSecretLen || u.Hash == "" {
		return apperror.Validation("invalid credentials")
	}
	switch n := utf8.RuneCountInString(u.Account.Username); {
	case n == 0:
		return apperror.Validation("username is required")
	case n > maxUsernameLen:
		return apperror.Validation("username must be at most 50 characters")
	}
	if u.Account.Phone == "" {
		return apperror.Validation("phone number is required")
	}
	if !ValidPhone(u.Account.Phone) {
		return apperror.Validation(u.Account.Phone + " is not a valid telephone number, expected +255 XXX XXX XXX")
	}
	if !u.Role.Valid() {
		return apperror.Validation("invalid role " + string(u.Role))
	}
	if !u.UserType.Valid() {
		return apperror.Validation("invalid user type " + string(u.UserType))
	}
	return nil
}

// ValidPhone reports whether s has the international +XXX XXX XXX XXX format.
func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }
