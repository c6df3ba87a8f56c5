package account

import (
	"mime/multipart"

	"github.com/dmitrymomot/campusmove/svc/auth"
	"github.com/dmitrymomot/campusmove/svc/token"
)

type RegisterRequest struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	UniversityName  string `json:"university_name" form:"university_name"`
	UserType        string `json:"user_type" form:"user_type"`
}

// CredentialsRequest is the body of login and token obtain.
type CredentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ProfileUpdateRequest lists the writable profile fields. Anything else in
// the body is ignored.
type ProfileUpdateRequest struct {
	PhoneNumber    *string               `json:"phone_number" form:"phone_number"`
	UniversityName *string               `json:"university_name" form:"university_name"`
	ProfileImage   *multipart.FileHeader `json:"-" file:"profile_image"`
}

type VerifyProviderRequest struct {
	ProviderID string `json:"provider_id" form:"provider_id"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh"`
}

type VerifyTokenRequest struct {
	Token string `json:"token" form:"token"`
}

type LoginResponse struct {
	token.Pair
	User auth.Profile `json:"user"`
}

type VerifyProviderResponse struct {
	Message  string       `json:"message"`
	Provider auth.Profile `json:"provider"`
}
