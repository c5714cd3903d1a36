package service

import (
	"errors"

	"github.com/nkarpov/timebox-api/internal/model"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type credential struct {
	user     model.User
	password string
}

// AuthService сверяет логин с единственной захардкоженной демо-учеткой.
// Настоящей аутентификации здесь нет намеренно.
type AuthService struct {
	users []credential
}

func NewAuthService() *AuthService {
	return &AuthService{
		users: []credential{
			{
				user:     model.User{ID: "1", Email: "admin@test.com", Name: "Admin User"},
				password: "Admin123*$",
			},
		},
	}
}

func (s *AuthService) Login(email, password string) (model.User, error) {
	for _, c := range s.users {
		if c.user.Email == email && c.password == password {
			return c.user, nil
		}
	}
	return model.User{}, ErrInvalidCredentials
}
