// Package service implements the role-gated operations behind the menus:
// accounts and sessions, catalog/user administration and the order flow.
package service

import (
	"context"
	"regexp"

	"pizza-store/internal/apperr"
	"pizza-store/internal/domain"
	"pizza-store/internal/logger"
	"pizza-store/internal/repository"
)

// Session identifies the authenticated caller. It is threaded through every
// operation; there is no process-wide current user.
type Session struct {
	Login string
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Accounts covers registration, authentication and profile maintenance.
type Accounts struct {
	users repository.Users
	lg    *logger.Logger
}

func NewAccounts(users repository.Users, lg *logger.Logger) *Accounts {
	return &Accounts{users: users, lg: lg}
}

// Register creates a user with an explicit, validated role.
func (a *Accounts) Register(ctx context.Context, login, password, phone string, role domain.Role) error {
	if err := ValidateLogin(login); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return err
	}
	taken, err := a.users.Exists(ctx, login)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Validationf("login %q is already taken", login)
	}
	if err := a.users.Create(ctx, domain.User{
		Login:    login,
		Password: password,
		PhoneNum: phone,
		Role:     role,
	}); err != nil {
		return err
	}
	a.lg.Info("user_registered", map[string]any{"login": login, "role": string(role)})
	return nil
}

// Authenticate resolves a credential pair to a session. A non-matching pair
// is a normal outcome, reported through ok, not an error.
func (a *Accounts) Authenticate(ctx context.Context, login, password string) (Session, bool, error) {
	matched, err := a.users.Authenticate(ctx, login, password)
	if err != nil {
		return Session{}, false, err
	}
	if matched == "" {
		return Session{}, false, nil
	}
	a.lg.Info("user_logged_in", map[string]any{"login": matched})
	return Session{Login: matched}, true, nil
}

// Role re-resolves the caller's role; it can change mid-session through
// administrative action by another session.
func (a *Accounts) Role(ctx context.Context, s Session) (domain.Role, error) {
	return a.users.GetRole(ctx, s.Login)
}

func (a *Accounts) Profile(ctx context.Context, login string) (domain.User, error) {
	return a.users.Get(ctx, login)
}

func (a *Accounts) UpdateFavoriteItems(ctx context.Context, s Session, item string) error {
	return a.users.SetFavoriteItems(ctx, s.Login, item)
}

func (a *Accounts) UpdatePhoneNum(ctx context.Context, s Session, phone string) error {
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	return a.users.SetPhoneNum(ctx, s.Login, phone)
}

func (a *Accounts) UpdatePassword(ctx context.Context, s Session, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	return a.users.SetPassword(ctx, s.Login, password)
}

func ValidateLogin(login string) error {
	if len(login) == 0 || len(login) > 50 {
		return apperr.Validationf("login must be 1-50 characters")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) == 0 || len(password) > 30 {
		return apperr.Validationf("password must be 1-30 characters")
	}
	return nil
}

func ValidatePhone(phone string) error {
	if len(phone) == 0 || len(phone) > 20 || !digitsOnly.MatchString(phone) {
		return apperr.Validationf("phone number must be 1-20 digits")
	}
	return nil
}
