package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"theme-catalog/internal/domain"
	"theme-catalog/internal/service"
	"theme-catalog/internal/transport/http/dto"
	"theme-catalog/internal/transport/http/ez"
)

type UserHandler struct{ svc *service.UserService }

func NewUserHandler(svc *service.UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Priority() int { return 20 }

func (h *UserHandler) MountAPI(pub, authed ez.EZ) {
	// 公开注册：只返回用户资料，不签发 token
	ez.RegisterAction(pub, ez.Action[dto.RegisterRequest, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *dto.RegisterRequest) (*domain.User, error) {
			return h.svc.Create(c.Request.Context(), in.Input())
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.svc.FindAll(c.Request.Context())
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method:  http.MethodGet,
		Path:    "/users/:id",
		Binder:  ez.BindNone,
		Auth:    true,
		IDParam: "id",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.FindByID(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(authed, ez.Action[dto.UpdateUserRequest, *domain.User]{
		Method:  http.MethodPatch,
		Path:    "/users/:id",
		Binder:  ez.BindJSON,
		Auth:    true,
		IDParam: "id",
		Handler: func(c *gin.Context, in *dto.UpdateUserRequest) (*domain.User, error) {
			id := c.Param("id")
			if id != ez.UserID(c) {
				return nil, domain.Forbidden("you can only update your own account")
			}
			return h.svc.Update(c.Request.Context(), id, in.Patch())
		},
	})
}
