package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"theme-catalog/internal/domain"
	"theme-catalog/internal/service"
	"theme-catalog/internal/transport/http/dto"
	"theme-catalog/internal/transport/http/ez"
)

type ThemeHandler struct{ svc *service.ThemeService }

func NewThemeHandler(svc *service.ThemeService) *ThemeHandler { return &ThemeHandler{svc: svc} }

func (h *ThemeHandler) Priority() int { return 30 }

// MountAPI 主题接口全部需要登录
func (h *ThemeHandler) MountAPI(_, authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[dto.CreateThemeRequest, *domain.Theme]{
		Method: http.MethodPost,
		Path:   "/themes",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *dto.CreateThemeRequest) (*domain.Theme, error) {
			return h.svc.Create(c.Request.Context(), in.Input(), ez.UserID(c))
		},
	})

	ez.RegisterAction(authed, ez.Action[dto.ListThemesQuery, *domain.ThemePage]{
		Method: http.MethodGet,
		Path:   "/themes",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *dto.ListThemesQuery) (*domain.ThemePage, error) {
			return h.svc.FindAll(c.Request.Context(), in.Query())
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *domain.Theme]{
		Method:  http.MethodGet,
		Path:    "/themes/:id",
		Binder:  ez.BindNone,
		Auth:    true,
		IDParam: "id",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Theme, error) {
			return h.svc.FindOne(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(authed, ez.Action[dto.UpdateThemeRequest, *domain.Theme]{
		Method:  http.MethodPatch,
		Path:    "/themes/:id",
		Binder:  ez.BindJSON,
		Auth:    true,
		IDParam: "id",
		Handler: func(c *gin.Context, in *dto.UpdateThemeRequest) (*domain.Theme, error) {
			return h.svc.Update(c.Request.Context(), c.Param("id"), in.Patch(), ez.UserID(c))
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, gin.H]{
		Method:  http.MethodDelete,
		Path:    "/themes/:id",
		Binder:  ez.BindNone,
		Auth:    true,
		IDParam: "id",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Remove(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
