package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"theme-catalog/internal/domain"
	"theme-catalog/internal/service"
	"theme-catalog/internal/transport/http/dto"
	"theme-catalog/internal/transport/http/ez"
)

type AuthHandler struct {
	svc        *service.AuthService
	loginGuard []gin.HandlerFunc
}

// NewAuthHandler loginGuard 只挂在 /auth/login 上（如登录限流）
func NewAuthHandler(svc *service.AuthService, loginGuard ...gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{svc: svc, loginGuard: loginGuard}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(pub, authed ez.EZ) {
	ez.RegisterAction(pub, ez.Action[dto.RegisterRequest, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *dto.RegisterRequest) (*service.AuthResult, error) {
			return h.svc.Register(c.Request.Context(), in.Input())
		},
	})

	ez.RegisterAction(pub.Group("", h.loginGuard...), ez.Action[dto.LoginRequest, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *dto.LoginRequest) (*service.AuthResult, error) {
			return h.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *domain.PublicUser]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.PublicUser, error) {
			return h.svc.Me(c.Request.Context(), ez.UserID(c))
		},
	})
}
