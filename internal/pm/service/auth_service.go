package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/entity"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 认证与用户服务
type AuthService struct {
	users     *repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(users *repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	Password   string `json:"password" binding:"required,min=6,max=64"`
	RealName   string `json:"realName" binding:"required"`
	Role       string `json:"role" binding:"omitempty,oneof=admin manager user"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Email      string `json:"email" binding:"omitempty,email"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult 登录结果
type LoginResult struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Register 注册用户，用户名唯一
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, &ConflictError{Message: "用户名已存在"}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}

	user := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     req.Username,
		PasswordHash: string(hash),
		RealName:     req.RealName,
		Role:         role,
		Department:   req.Department,
		Phone:        req.Phone,
		Email:        req.Email,
		Status:       entity.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("username", user.Username))
	return user, nil
}

// Login 登录，签发JWT
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &BadRequestError{Message: "用户名或密码错误"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &BadRequestError{Message: "用户名或密码错误"}
	}
	if user.Status != entity.UserStatusActive {
		return nil, &BusinessError{Message: "账号已被禁用"}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("用户登录", zap.String("username", user.Username))
	return &LoginResult{Token: token, User: user}, nil
}

// GetProfile 查询当前用户信息
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ListUsers 查询用户列表
func (s *AuthService) ListUsers(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	return s.users.FindAll(ctx, page, pageSize, filters)
}

func (s *AuthService) issueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
