package dto

import (
	"errors"
	"fmt"
	"strings"
)

type Register struct {
	FullName string   `json:"nomeCompleto"`
	Email    string   `json:"email"`
	Password string   `json:"senha"`
	Roles    []string `json:"perfis"`
}

func (r Register) IsValid() error {
	var nameErr, emailErr, passwordErr, rolesErr error

	if strings.TrimSpace(r.FullName) == "" {
		nameErr = fmt.Errorf("nomeCompleto is required")
	}

	if strings.TrimSpace(r.Email) == "" {
		emailErr = fmt.Errorf("email is required")
	}

	if strings.TrimSpace(r.Password) == "" {
		passwordErr = fmt.Errorf("senha is required")
	}

	if len(r.Roles) == 0 {
		rolesErr = fmt.Errorf("perfis must not be empty")
	}

	return errors.Join(nameErr, emailErr, passwordErr, rolesErr)
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

func (l Login) IsValid() error {
	var emailErr, passwordErr error

	if strings.TrimSpace(l.Email) == "" {
		emailErr = fmt.Errorf("email is required")
	}

	if strings.TrimSpace(l.Password) == "" {
		passwordErr = fmt.Errorf("senha is required")
	}

	return errors.Join(emailErr, passwordErr)
}

type ForgotPassword struct {
	Email string `json:"email"`
}

func (f ForgotPassword) IsValid() error {
	if strings.TrimSpace(f.Email) == "" {
		return fmt.Errorf("email is required")
	}

	return nil
}

/**
  {
      "message": "Usuário registrado com sucesso!",
      "userId": 42,
      "perfis": ["courier"],
      "token": "<jwt>"
  }
*/

type AuthResponse struct {
	Message string   `json:"message"`
	UserID  int64    `json:"userId"`
	Roles   []string `json:"perfis"`
	Token   string   `json:"token"`
}
