package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ozayys/ChatBotV1/dao"
	"github.com/ozayys/ChatBotV1/models"
)

// UserLogic handles registration, login and token issuance
type UserLogic struct {
	userDAO   *dao.UserDAO
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserLogic(userDAO *dao.UserDAO, jwtSecret []byte, tokenTTL time.Duration) *UserLogic {
	return &UserLogic{
		userDAO:   userDAO,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new account and returns it with a signed token.
func (l *UserLogic) Register(username, email, password string) (*models.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: all fields are required", ErrInvalidRequest)
	}

	if _, err := l.userDAO.GetUserByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := l.userDAO.CreateUser(username, email, string(hash))
	if err != nil {
		return nil, "", err
	}

	token, err := l.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a signed token.
func (l *UserLogic) Login(email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrInvalidRequest)
	}

	user, err := l.userDAO.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}

	token, err := l.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser loads a user's profile by id.
func (l *UserLogic) GetUser(id uint64) (*models.User, error) {
	return l.userDAO.GetUserByID(id)
}

func (l *UserLogic) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(l.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.jwtSecret)
}
