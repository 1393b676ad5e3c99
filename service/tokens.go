package service

import (
	"errors"
	"strings"
	"time"

	"github.com/bookbuddy/api/data"
	"github.com/bookbuddy/api/internal/mailer"
	"github.com/bookbuddy/api/internal/validator"
	"github.com/bookbuddy/api/repository"
)

type tokens interface {
	CreateActivationToken(email string) error
	CreateAuthenticationToken(email string, password string) (*data.Token, error)
	DeleteAuthenticationTokens(userID int64) error
}

// CreateActivationToken issues a fresh activation token for an
// unactivated account and emails it to the user.
func (s *service) CreateActivationToken(email string) error {
	v := validator.New()
	if data.ValidateEmail(v, email); !v.Valid() {
		return failedValidation(v.Errors)
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("email", "no matching email address found")
			return failedValidation(v.Errors)
		default:
			return err
		}
	}

	if user.Activated {
		v.AddError("email", "user has already been activated")
		return failedValidation(v.Errors)
	}

	token, err := s.repo.CreateNewToken(user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		return err
	}

	s.background(func() {
		templateData := map[string]string{
			"userName":        strings.Split(user.Name, " ")[0],
			"activationToken": token.Plaintext,
		}
		m := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
		err := m.Send(user.Email, "token_activation.tmpl", templateData)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})

	return nil
}

// CreateAuthenticationToken checks the given credentials and, if they
// match, issues a 24 hour authentication token.
func (s *service) CreateAuthenticationToken(email string, password string) (*data.Token, error) {
	v := validator.New()
	data.ValidateEmail(v, email)
	data.ValidatePasswordPlaintext(v, password)
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	token, err := s.repo.CreateNewToken(user.ID, 24*time.Hour, data.ScopeAuthentication)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteAuthenticationTokens invalidates every authentication token the
// user holds, logging them out everywhere.
func (s *service) DeleteAuthenticationTokens(userID int64) error {
	return s.repo.DeleteAllTokensForUser(data.ScopeAuthentication, userID)
}
