package service

import (
	"context"
	"strings"

	"evenza/internal/auth"
	"evenza/internal/mailer"
	"evenza/internal/model"
	"evenza/internal/repository"
	"evenza/pkg/app_errors"

	"github.com/google/uuid"
)

type AuthService interface {
	// Register 建立未驗證帳號並寄送驗證碼(best-effort)
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.Identity, error)
	Verify(ctx context.Context, email, code string) error
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	mail   *mailer.Client
	secret string
}

func NewAuthService(users repository.UserRepository, mail *mailer.Client, secret string) AuthService {
	return &AuthServiceImpl{users: users, mail: mail, secret: secret}
}

func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) < 8 {
		return nil, app_errors.ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	code, err := auth.GenerateVerificationCode()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     hash,
		EmailVerified:    false,
		VerificationCode: code,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.mail.SendVerificationEmail(ctx, mailer.VerificationEmail{
		RecipientEmail: email,
		Code:           code,
	})

	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *model.Identity, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		// 不洩漏帳號是否存在
		return "", nil, app_errors.ErrBadCredential
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, app_errors.ErrBadCredential
	}

	ident := &model.Identity{
		UID:           user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	}
	token, err := auth.MakeToken(*ident, s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, ident, nil
}

func (s *AuthServiceImpl) Verify(ctx context.Context, email, code string) error {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	if user.VerificationCode == "" || user.VerificationCode != strings.TrimSpace(code) {
		return app_errors.ErrBadCode
	}
	return s.users.MarkVerified(ctx, user.ID)
}
