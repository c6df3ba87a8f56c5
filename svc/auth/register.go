package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/pkg/logger"
	"github.com/dmitrymomot/campusmove/pkg/sanitizer"
	"github.com/dmitrymomot/campusmove/pkg/validator"
)

const (
	maxEmailLength      = 254
	maxPhoneLength      = 20
	maxUniversityLength = 200
)

var cleanText = sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.SingleLine, sanitizer.Trim)

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	PhoneNumber     string
	UniversityName  string
	UserType        string
}

// Register validates input and creates an unverified, active account.
// Field failures, including a taken email, are validator.ValidationErrors.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	email := sanitizer.NormalizeEmail(in.Email)
	phone := cleanText(in.PhoneNumber)
	university := cleanText(in.UniversityName)
	userType := sanitizer.Trim(in.UserType)

	if err := validator.Apply(
		validator.RequiredString("email", email),
		validator.When(email != "", validator.ValidEmail("email", email)),
		validator.MaxLenString("email", email, maxEmailLength),
		validator.RequiredString("password", in.Password),
		validator.When(in.Password != "", validator.StrongPassword("password", in.Password, s.passwordStrength)),
		validator.When(in.Password != "", validator.NotCommonPassword("password", in.Password)),
		validator.RequiredString("confirm_password", in.ConfirmPassword),
		validator.When(in.ConfirmPassword != "",
			validator.EqualString("confirm_password", in.ConfirmPassword, in.Password, "Passwords do not match.")),
		validator.RequiredString("user_type", userType),
		validator.When(userType != "", validator.InListString("user_type", userType, UserTypes)),
		validator.ValidPhone("phone_number", phone),
		validator.MaxLenString("phone_number", phone, maxPhoneLength),
		validator.MaxLenString("university_name", university, maxUniversityLength),
	); err != nil {
		return nil, err
	}

	_, err := s.storage.GetAccountByEmail(ctx, email)
	if err == nil {
		return nil, emailTakenError()
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	account := &Account{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   hash,
		PhoneNumber:    phone,
		UniversityName: university,
		UserType:       UserType(userType),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		// Concurrent registration of the same email loses at the unique index.
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, emailTakenError()
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account registered",
		logger.Event("account_registered"),
		logger.UserID(account.ID.String()),
		slog.String("user_type", string(account.UserType)),
	)

	return account, nil
}

func emailTakenError() error {
	var verrs validator.ValidationErrors
	verrs.AddField("email", msgEmailTaken)
	return errors.Join(ErrEmailAlreadyExists, verrs)
}
