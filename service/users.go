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

type users interface {
	RegisterUser(name string, email string, password string) (*data.User, error)
	ActivateUser(token string) (*data.User, error)
	ShowUser(userID int64) (*data.User, error)
	GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error)
}

// RegisterUser registers a new user and emails them an activation
// token. The account stays inactive until the token is redeemed.
func (s *service) RegisterUser(name string, email string, password string) (*data.User, error) {
	user := &data.User{
		Name:      name,
		Email:     email,
		Activated: false,
	}
	err := user.Password.Set(password)
	if err != nil {
		return nil, err
	}

	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	err = s.repo.CreateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("email", "a user with this email address already exists")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}

	token, err := s.repo.CreateNewToken(user.ID, 3*24*time.Hour, data.ScopeActivation)
	if err != nil {
		return nil, err
	}

	// Send the activation email off the request path.
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

	return user, nil
}

// ActivateUser redeems an activation token and marks the associated
// account as activated. All outstanding activation tokens for the user
// are deleted afterwards.
func (s *service) ActivateUser(token string) (*data.User, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, token); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}

	user, err := s.repo.GetUserForToken(data.ScopeActivation, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired activation token")
			return nil, failedValidation(v.Errors)
		default:
			return nil, err
		}
	}

	user.Activated = true
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}

	err = s.repo.DeleteAllTokensForUser(data.ScopeActivation, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ShowUser retrieves a user's profile.
func (s *service) ShowUser(userID int64) (*data.User, error) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// GetUserForToken retrieves the user an unexpired token in the given
// scope belongs to. The authentication middleware is the main caller.
func (s *service) GetUserForToken(tokenScope string, tokenPlaintext string) (*data.User, error) {
	user, err := s.repo.GetUserForToken(tokenScope, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}
