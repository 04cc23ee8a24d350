package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"theme-catalog/internal/domain"
	"theme-catalog/internal/transport/http/dto"
	resp "theme-catalog/internal/transport/http/response"
)

// gin 上下文里的身份键，由 AuthJWT 写入
const (
	KeyUserID = "userId"
	KeyEmail  = "email"
)

// EZ 路由分组 + 日志
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group 子分组，可附加中间件
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // GET | POST | PATCH | PUT | DELETE
	Path    string // 例："/themes/:id"
	Binder  Binder
	Auth    bool   // 要求 AuthJWT 已写入 userId
	IDParam string // 非空时校验该路径参数为 uuid
	Status  int    // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权
		if a.Auth && UserID(c) == "" {
			writeErr(c, resp.CodeUnauthorized, "unauthorized", nil)
			return
		}
		if a.IDParam != "" && !dto.ValidID(c.Param(a.IDParam)) {
			writeErr(c, resp.CodeBadRequest, "invalid "+a.IDParam, nil)
			return
		}

		// 2) 绑定 + 校验
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			writeBindErr(c, bindErr)
			return
		}
		if a.Binder != BindNone && a.Binder != "" {
			if fes := dto.Validate(&in); len(fes) > 0 {
				writeErr(c, resp.CodeBadRequest, "validation failed", gin.H{"errors": fes})
				return
			}
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// UserID 当前登录用户 id
func UserID(c *gin.Context) string { return c.GetString(KeyUserID) }

// 业务错误 -> 响应；非 domain.Error 一律 500 且不回传原文
func (e EZ) fail(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		e.log.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		writeErr(c, resp.CodeServerError, "internal server error", nil)
		return
	}
	code := CodeOf(de.Kind)
	msg := de.Msg
	if code == resp.CodeServerError {
		if de.Err != nil {
			e.log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(de.Err))
		}
		msg = "internal server error"
	}
	writeErr(c, code, msg, nil)
}

// CodeOf 错误种类 -> 响应码
func CodeOf(k domain.Kind) int {
	switch k {
	case domain.KindInvalid:
		return resp.CodeBadRequest
	case domain.KindUnauthorized:
		return resp.CodeUnauthorized
	case domain.KindForbidden:
		return resp.CodeForbidden
	case domain.KindNotFound:
		return resp.CodeNotFound
	case domain.KindConflict:
		return resp.CodeConflict
	case domain.KindTooManyRequests:
		return resp.CodeTooManyRequests
	default:
		return resp.CodeServerError
	}
}

func writeBindErr(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		writeErr(c, resp.CodeTooLarge, "request body too large", nil)
	case errors.Is(err, io.EOF):
		writeErr(c, resp.CodeBadRequest, "request body is required", nil)
	default:
		writeErr(c, resp.CodeBadRequest, "invalid request: "+err.Error(), nil)
	}
}

func writeErr(c *gin.Context, code int, msg string, data any) {
	c.AbortWithStatusJSON(resp.Status(code), resp.ErrorWith(code, msg, data))
}
