package service

import (
	"context"
	"sync"
	"time"

	"dscatalog/internal/config"
	"dscatalog/internal/dto"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uow     repository.UnitOfWork
	cfg     *config.Config
	compare func(hash, password []byte) error
}

func NewAuthService(uow repository.UnitOfWork, cfg *config.Config) AuthService {
	return &authService{uow: uow, cfg: cfg, compare: bcrypt.CompareHashAndPassword}
}

// dummyHash stands in for the stored hash of an unknown email, so a miss costs
// the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return h
})

// Login exchanges an email and password for a signed access token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var user *model.User
	err := s.uow.Read(ctx, func(r repository.Repositories) error {
		var err error
		user, err = r.Users.FindByEmail(ctx, req.Username)
		return err
	})
	if repository.IsNotFound(err) {
		_ = s.compare(dummyHash(), []byte(req.Password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.compare([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         user.Email,
		"user_id":     user.ID,
		"first_name":  user.FirstName,
		"authorities": user.Authorities(),
		"exp":         now.Add(duration).Unix(),
		"iat":         now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
