package service

import (
	"context"
	"errors"
	"fmt"

	"quiz_tournament_backend/internal/model"
	"quiz_tournament_backend/internal/repository"
	"quiz_tournament_backend/internal/util"
	"quiz_tournament_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Tokens   *TokenService
	Email    *EmailService
}

func NewUserService(userRepo *repository.UserRepository, tokens *TokenService, email *EmailService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Email:    email,
	}
}

func (s *UserService) GetAllUsers() ([]model.User, error) {
	return s.UserRepo.FindAll()
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// UserUpdate 用户资料更新，密码不走这里
type UserUpdate struct {
	Username  *string         `json:"username"`
	Email     *string         `json:"email"`
	FirstName *string         `json:"firstName"`
	LastName  *string         `json:"lastName"`
	Role      *model.UserRole `json:"role"`
	Age       *int            `json:"age"`
	Password  *string         `json:"password"`
}

func (s *UserService) UpdateUser(id uint, update UserUpdate) (*model.User, error) {
	if update.Password != nil {
		return nil, util.ErrPasswordUpdate
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.Age != nil {
		user.Age = update.Age
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}

// ForgotPassword 生成重置令牌并邮件送达
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.UserRepo.FindByEmail(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	token, err := s.Tokens.CreateResetToken(ctx, email)
	if err != nil {
		return err
	}

	subject := "Password Reset Request"
	body := fmt.Sprintf(
		"Hello,\n\nWe received a request to reset your password. Use the token below to reset it:\n\n%s\n\nThe token expires in 15 minutes. If you did not request this, please ignore this email.\n\nBest regards,\nQuiz Tournament Team",
		token,
	)

	go func() {
		if err := s.Email.SendBulkEmail([]string{email}, subject, body); err != nil {
			logger.Log.Error("failed to deliver reset token email", zap.Error(err))
		}
	}()

	return nil
}

// ResetPassword 消费令牌并改密，令牌一次有效
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := s.Tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}
