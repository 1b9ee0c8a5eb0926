package service

import (
	"errors"
	"strings"

	"github.com/newsdesk/internal/db"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// UserService wraps user lookups used during review and login.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// FindByID fetches a user by primary key.
func (s *UserService) FindByID(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email, case-insensitively.
func (s *UserService) FindByEmail(email string) (*db.User, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, ErrUserNotFound
	}

	var user db.User
	if err := s.db.Where("LOWER(email) = LOWER(?)", trimmed).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername fetches a user by username.
func (s *UserService) FindByUsername(username string) (*db.User, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, ErrUserNotFound
	}

	var user db.User
	if err := s.db.Where("username = ?", trimmed).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
