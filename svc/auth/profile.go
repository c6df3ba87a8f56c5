package auth

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/pkg/file"
	"github.com/dmitrymomot/campusmove/pkg/logger"
	"github.com/dmitrymomot/campusmove/pkg/sanitizer"
	"github.com/dmitrymomot/campusmove/pkg/validator"
)

var ErrFileStorageDisabled = errors.New("profile image storage is not configured")

const profileImageDir = "profile_images"

// ProfileUpdate carries the mutable profile fields. Nil leaves a field as is.
type ProfileUpdate struct {
	PhoneNumber    *string
	UniversityName *string
	Image          *multipart.FileHeader
}

// UpdateProfile applies in to the account with the given ID. A new image
// replaces the stored one, which is then removed from file storage.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	var rules []validator.Rule
	if in.PhoneNumber != nil {
		phone := cleanText(*in.PhoneNumber)
		in.PhoneNumber = &phone
		rules = append(rules,
			validator.ValidPhone("phone_number", phone),
			validator.MaxLenString("phone_number", phone, maxPhoneLength),
		)
	}
	if in.UniversityName != nil {
		university := cleanText(*in.UniversityName)
		in.UniversityName = &university
		rules = append(rules, validator.MaxLenString("university_name", university, maxUniversityLength))
	}

	verrs := validator.ExtractValidationErrors(validator.Apply(rules...))
	if in.Image != nil {
		msg, err := imageValidationMessage(file.ValidateImage(in.Image))
		if err != nil {
			return nil, err
		}
		if msg != "" {
			verrs.AddField("profile_image", msg)
		}
	}
	if !verrs.IsEmpty() {
		return nil, verrs
	}

	fields := ProfileFields{
		PhoneNumber:    in.PhoneNumber,
		UniversityName: in.UniversityName,
		UpdatedAt:      s.now().UTC(),
	}

	oldImage := account.ProfileImage
	if in.Image != nil {
		if s.files == nil {
			return nil, ErrFileStorageDisabled
		}
		key := path.Join(profileImageDir, account.ID.String(), sanitizer.SecureFilename(in.Image.Filename))
		stored, err := s.files.Save(ctx, in.Image, key)
		if err != nil {
			return nil, fmt.Errorf("failed to save profile image: %w", err)
		}
		fields.ProfileImage = &stored.RelativePath
	}

	// Only profile columns are written, so flags changed concurrently by
	// staff survive.
	updated, err := s.storage.UpdateProfileFields(ctx, account.ID, fields)
	if err != nil {
		if fields.ProfileImage != nil && *fields.ProfileImage != oldImage {
			s.deleteImage(ctx, account.ID, *fields.ProfileImage)
		}
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if fields.ProfileImage != nil && oldImage != "" && oldImage != *fields.ProfileImage {
		s.deleteImage(ctx, account.ID, oldImage)
	}

	return updated, nil
}

func (s *Service) deleteImage(ctx context.Context, accountID uuid.UUID, key string) {
	if s.files == nil {
		return
	}
	if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, file.ErrFileNotFound) {
		s.logger.WarnContext(ctx, "failed to delete profile image",
			logger.UserID(accountID.String()),
			logger.Error(err),
		)
	}
}

// imageValidationMessage turns a rejection from file.ValidateImage into a
// field message. Read failures are returned as errors.
func imageValidationMessage(err error) (string, error) {
	switch {
	case err == nil:
		return "", nil
	case errors.Is(err, file.ErrFileTooLarge):
		return "Image file size cannot exceed 5MB.", nil
	case errors.Is(err, file.ErrExtensionNotAllowed):
		return "Invalid image format. Allowed formats: jpg, jpeg, png, webp", nil
	case errors.Is(err, file.ErrMIMETypeNotAllowed), errors.Is(err, file.ErrFailedToDetectMIMEType):
		return "Upload a valid image. The file you uploaded was either not an image or a corrupted image.", nil
	default:
		return "", fmt.Errorf("failed to inspect profile image: %w", err)
	}
}
