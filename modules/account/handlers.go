package account

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/campusmove/handler"
	"github.com/dmitrymomot/campusmove/pkg/validator"
	"github.com/dmitrymomot/campusmove/svc/auth"
)

func (m *module) register(ctx handler.Context, req RegisterRequest) handler.Response {
	account, err := m.auth.Register(ctx, auth.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		PhoneNumber:     req.PhoneNumber,
		UniversityName:  req.UniversityName,
		UserType:        req.UserType,
	})
	if err != nil {
		return handler.Error(httpError(err))
	}
	return handler.JSON(m.auth.Profile(account), handler.WithJSONStatus(http.StatusCreated))
}

func (m *module) login(ctx handler.Context, req CredentialsRequest) handler.Response {
	account, err := m.authenticate(ctx, req)
	if err != nil {
		return handler.Error(httpError(err))
	}

	pair, err := m.tokens.IssuePair(account)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(LoginResponse{Pair: pair, User: m.auth.Profile(account)})
}

func (m *module) obtainToken(ctx handler.Context, req CredentialsRequest) handler.Response {
	account, err := m.authenticate(ctx, req)
	if err != nil {
		return handler.Error(httpError(err))
	}

	pair, err := m.tokens.IssuePair(account)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(pair)
}

func (m *module) authenticate(ctx handler.Context, req CredentialsRequest) (*auth.Account, error) {
	if err := validator.Apply(
		validator.RequiredString("email", req.Email),
		validator.RequiredString("password", req.Password),
	); err != nil {
		return nil, err
	}
	return m.auth.Authenticate(ctx, req.Email, req.Password)
}

func (m *module) refresh(ctx handler.Context, req RefreshRequest) handler.Response {
	if err := validator.Apply(validator.RequiredString("refresh", req.Refresh)); err != nil {
		return handler.Error(err)
	}

	pair, err := m.tokens.Refresh(ctx, req.Refresh)
	if err != nil {
		return handler.Error(httpError(err))
	}
	return handler.JSON(pair)
}

func (m *module) verifyToken(ctx handler.Context, req VerifyTokenRequest) handler.Response {
	if err := validator.Apply(validator.RequiredString("token", req.Token)); err != nil {
		return handler.Error(err)
	}

	if _, err := m.tokens.Verify(ctx, req.Token); err != nil {
		return handler.Error(httpError(err))
	}
	return handler.EmptyObject()
}

// blacklist serves both /token/blacklist/ and /auth/logout/.
func (m *module) blacklist(ctx handler.Context, req RefreshRequest) handler.Response {
	if err := validator.Apply(validator.RequiredString("refresh", req.Refresh)); err != nil {
		return handler.Error(err)
	}

	if err := m.tokens.Blacklist(ctx, req.Refresh); err != nil {
		return handler.Error(httpError(err))
	}
	return handler.EmptyObject()
}

func (m *module) profile(ctx handler.Context, _ struct{}) handler.Response {
	account := auth.GetAccountFromContext(ctx)
	if account == nil {
		return handler.Error(errNotAuthenticated)
	}
	return handler.JSON(m.auth.Profile(account))
}

func (m *module) updateProfile(ctx handler.Context, req ProfileUpdateRequest) handler.Response {
	account := auth.GetAccountFromContext(ctx)
	if account == nil {
		return handler.Error(errNotAuthenticated)
	}

	updated, err := m.auth.UpdateProfile(ctx, account.ID, auth.ProfileUpdate{
		PhoneNumber:    req.PhoneNumber,
		UniversityName: req.UniversityName,
		Image:          req.ProfileImage,
	})
	if err != nil {
		return handler.Error(httpError(err))
	}
	return handler.JSON(m.auth.Profile(updated))
}

func (m *module) verifyProvider(ctx handler.Context, req VerifyProviderRequest) handler.Response {
	staff := auth.GetAccountFromContext(ctx)
	if staff == nil {
		return handler.Error(errNotAuthenticated)
	}
	if !staff.IsStaff {
		return handler.Error(errStaffRequired)
	}

	if err := validator.Apply(
		validator.RequiredString("provider_id", req.ProviderID),
		validator.When(req.ProviderID != "", validator.ValidUUID("provider_id", req.ProviderID)),
	); err != nil {
		return handler.Error(err)
	}

	provider, err := m.auth.VerifyProvider(ctx, staff, uuid.MustParse(req.ProviderID))
	if errors.Is(err, auth.ErrAccountNotFound) {
		return handler.Error(fmt.Errorf("%w: %w", errProviderNotFound, err))
	}
	if err != nil {
		return handler.Error(httpError(err))
	}

	return handler.JSON(VerifyProviderResponse{
		Message:  "Provider verified successfully.",
		Provider: m.auth.Profile(provider),
	})
}
