package auth

import (
	"time"

	"github.com/google/uuid"
)

// UserType is the closed set of account categories.
type UserType string

const (
	UserTypeStudent  UserType = "student"
	UserTypeProvider UserType = "provider"
)

// UserTypes lists every valid UserType.
var UserTypes = []string{string(UserTypeStudent), string(UserTypeProvider)}

func (t UserType) Valid() bool {
	return t == UserTypeStudent || t == UserTypeProvider
}

// Account is a stored marketplace identity.
type Account struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   []byte
	PhoneNumber    string
	UniversityName string
	UserType       UserType
	ProfileImage   string // storage path, empty when unset
	IsVerified     bool
	IsStaff        bool
	IsSuperuser    bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Account) IsProvider() bool { return a.UserType == UserTypeProvider }

// Profile is the public view of an Account. Credentials and privilege
// flags have no field here.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	UniversityName  string    `json:"university_name"`
	UserType        UserType  `json:"user_type"`
	IsVerified      bool      `json:"is_verified"`
	ProfileImageURL *string   `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewProfile builds the public view. urlFor resolves a storage path and
// may be nil when no image storage is configured.
func NewProfile(a *Account, urlFor func(string) string) Profile {
	p := Profile{
		ID:             a.ID,
		Email:          a.Email,
		PhoneNumber:    a.PhoneNumber,
		UniversityName: a.UniversityName,
		UserType:       a.UserType,
		IsVerified:     a.IsVerified,
		CreatedAt:      a.CreatedAt,
	}
	if a.ProfileImage != "" {
		u := a.ProfileImage
		if urlFor != nil {
			u = urlFor(a.ProfileImage)
		}
		p.ProfileImageURL = &u
	}
	return p
}
