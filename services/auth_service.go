package services

import (
	"errors"
	"fmt"
	"log"
	"os"

	"reviewhub-api/models"
	"reviewhub-api/notifier"
	"reviewhub-api/repositories"

	"gorm.io/gorm"
)

const confirmationSubject = "Confirm your registration"

type AuthService interface {
	Signup(req models.SignupRequest) (*models.SignupResponse, error)
	GetToken(req models.TokenRequest) (*models.TokenResponse, error)
	GetUserByID(id uint) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   TokenService
	notifier notifier.Notifier
	from     string
}

func NewAuthService(userRepo repositories.UserRepository, tokens TokenService, n notifier.Notifier) AuthService {
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@reviewhub.local"
	}
	return &authService{userRepo: userRepo, tokens: tokens, notifier: n, from: from}
}

// Signup gets or creates the user keyed by (username, email) and emails a
// confirmation code. The code never appears in the response.
func (s *authService) Signup(req models.SignupRequest) (*models.SignupResponse, error) {
	if req.Username == models.ReservedUsername {
		return nil, models.ErrReservedUsername
	}
	if !models.UsernameRX.MatchString(req.Username) {
		return nil, models.ErrInvalidUsername
	}

	user, err := s.getOrCreate(req.Username, req.Email)
	if err != nil {
		return nil, err
	}

	code, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	// Delivery failure is non-fatal: the account exists and signup can be
	// retried to get a fresh code.
	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.notifier.Send(confirmationSubject, body, s.from, []string{user.Email}); err != nil {
		log.Println("Failed to send confirmation code:", err)
	}

	return &models.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) getOrCreate(username, email string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err == nil {
		// Repeat signup for the same identity reissues a code; the same
		// username under a different email is someone else's.
		if user.Email != email {
			return nil, models.ErrConflict
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &models.User{Username: username, Email: email, Role: models.RoleUser}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetToken exchanges a confirmation code for a fresh access token.
func (s *authService) GetToken(req models.TokenRequest) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	userID, err := s.tokens.Resolve(req.ConfirmationCode)
	if err != nil {
		return nil, models.ErrInvalidToken
	}
	if userID != user.ID {
		return nil, models.ErrIdentityMismatch
	}

	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{AccessToken: accessToken}, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
