package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/pkg/logger"
)

// VerifyProvider marks a provider account as verified on behalf of a staff
// member. Verifying an already verified provider succeeds without a write.
func (s *Service) VerifyProvider(ctx context.Context, staff *Account, providerID uuid.UUID) (*Account, error) {
	if staff == nil || !staff.IsStaff {
		return nil, ErrForbidden
	}

	provider, err := s.GetAccount(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.IsProvider() {
		return nil, ErrNotProvider
	}

	if !provider.IsVerified {
		provider.IsVerified = true
		provider.UpdatedAt = s.now().UTC()
		if err := s.storage.SetVerified(ctx, provider.ID, true, provider.UpdatedAt); err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return nil, ErrAccountNotFound
			}
			return nil, fmt.Errorf("failed to verify provider: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "provider verified",
		logger.Event("provider_verified"),
		slog.String("staff_email", staff.Email),
		slog.String("provider_id", provider.ID.String()),
		slog.String("provider_email", provider.Email),
	)

	return provider, nil
}
