package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rochupeng1231-a11y/xiaoweiict/internal/pm/service"
)

// AuthHandler 认证与用户接口
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "注册成功", user)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailBind(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OKMessage(c, "登录成功", result)
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetProfile(c.Request.Context(), GetUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, user)
}

// ListUsers GET /api/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"role":   c.Query("role"),
		"status": c.Query("status"),
		"search": c.Query("search"),
	}

	users, total, err := h.auth.ListUsers(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, users, total, page, pageSize)
}
