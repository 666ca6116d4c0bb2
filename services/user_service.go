package services

import (
	"errors"

	"reviewhub-api/models"
	"reviewhub-api/repositories"

	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(req models.CreateUserRequest) (*models.User, error)
	GetUsers(params models.ListParams) ([]models.User, int64, error)
	GetUser(username string) (*models.User, error)
	UpdateUser(username string, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(username string) error
	UpdateMe(userID uint, req models.UpdateUserRequest) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req models.CreateUserRequest) (*models.User, error) {
	if req.Username == models.ReservedUsername {
		return nil, models.ErrReservedUsername
	}
	if !models.UsernameRX.MatchString(req.Username) {
		return nil, models.ErrInvalidUsername
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, models.ErrInvalidRole
	}

	if err := s.checkUnique(req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetUsers(params models.ListParams) ([]models.User, int64, error) {
	return s.userRepo.GetList(params)
}

func (s *userService) GetUser(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser is the administrative path: every field, role included, may
// change.
func (s *userService) UpdateUser(username string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(username)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, models.ErrInvalidRole
		}
		user.Role = *req.Role
	}

	if err := s.applyProfile(user, req); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) DeleteUser(username string) error {
	user, err := s.GetUser(username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(user)
}

// UpdateMe is the self-service path: the role field is silently preserved
// no matter what the payload claims.
func (s *userService) UpdateMe(userID uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	req.Role = nil

	if err := s.applyProfile(user, req); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) applyProfile(user *models.User, req models.UpdateUserRequest) error {
	if req.Username != nil && *req.Username != user.Username {
		if *req.Username == models.ReservedUsername {
			return models.ErrReservedUsername
		}
		if !models.UsernameRX.MatchString(*req.Username) {
			return models.ErrInvalidUsername
		}
		if err := s.checkUnique(*req.Username, "", user.ID); err != nil {
			return err
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		if err := s.checkUnique("", *req.Email, user.ID); err != nil {
			return err
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	return nil
}

// checkUnique reports ErrConflict when username or email already belongs
// to a different user than selfID.
func (s *userService) checkUnique(username, email string, selfID uint) error {
	if username != "" {
		if existing, err := s.userRepo.GetByUsername(username); err == nil {
			if existing.ID != selfID {
				return models.ErrConflict
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if email != "" {
		if existing, err := s.userRepo.GetByEmail(email); err == nil {
			if existing.ID != selfID {
				return models.ErrConflict
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}
