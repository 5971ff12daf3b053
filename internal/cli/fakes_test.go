package cli

import (
	"context"

	"pizza-store/internal/apperr"
	"pizza-store/internal/domain"
)

// stubUsers backs the account service with an in-memory user table.
type stubUsers struct {
	m map[string]domain.User
}

func newStubUsers(users ...domain.User) *stubUsers {
	s := &stubUsers{m: map[string]domain.User{}}
	for _, u := range users {
		s.m[u.Login] = u
	}
	return s
}

func (s *stubUsers) Create(_ context.Context, u domain.User) error {
	s.m[u.Login] = u
	return nil
}

func (s *stubUsers) Authenticate(_ context.Context, login, password string) (string, error) {
	if u, ok := s.m[login]; ok && u.Password == password {
		return login, nil
	}
	return "", nil
}

func (s *stubUsers) GetRole(_ context.Context, login string) (domain.Role, error) {
	u, ok := s.m[login]
	if !ok {
		return "", apperr.NotFoundf("user %q", login)
	}
	return u.Role, nil
}

func (s *stubUsers) Get(_ context.Context, login string) (domain.User, error) {
	u, ok := s.m[login]
	if !ok {
		return domain.User{}, apperr.NotFoundf("user %q", login)
	}
	return u, nil
}

func (s *stubUsers) Exists(_ context.Context, login string) (bool, error) {
	_, ok := s.m[login]
	return ok, nil
}

func (s *stubUsers) SetFavoriteItems(_ context.Context, login, item string) error {
	return s.set(login, func(u *domain.User) { u.FavoriteItems = item })
}

func (s *stubUsers) SetPhoneNum(_ context.Context, login, phone string) error {
	return s.set(login, func(u *domain.User) { u.PhoneNum = phone })
}

func (s *stubUsers) SetPassword(_ context.Context, login, password string) error {
	return s.set(login, func(u *domain.User) { u.Password = password })
}

func (s *stubUsers) SetLogin(_ context.Context, login, newLogin string) error {
	u, ok := s.m[login]
	if !ok {
		return apperr.NotFoundf("user %q", login)
	}
	delete(s.m, login)
	u.Login = newLogin
	s.m[newLogin] = u
	return nil
}

func (s *stubUsers) SetRole(_ context.Context, login string, role domain.Role) error {
	return s.set(login, func(u *domain.User) { u.Role = role })
}

func (s *stubUsers) set(login string, fn func(*domain.User)) error {
	u, ok := s.m[login]
	if !ok {
		return apperr.NotFoundf("user %q", login)
	}
	fn(&u)
	s.m[login] = u
	return nil
}
