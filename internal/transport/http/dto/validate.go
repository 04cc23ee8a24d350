package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// checker 结构体可追加 tag 无法表达的校验
type checker interface {
	Check() []FieldError
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误里用对外字段名：json > form > uri
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form", "uri"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// bcrypt 只接受 72 字节以内的密码，max 按字符计数
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// Validate 先跑 validate tag，再跑 Check；无错误返回 nil
func Validate(v any) []FieldError {
	var out []FieldError
	if err := validate.Struct(v); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return []FieldError{{Field: "", Message: err.Error()}}
		}
		for _, fe := range ves {
			out = append(out, FieldError{Field: fieldPath(fe), Message: message(fe)})
		}
	}
	if c, ok := v.(checker); ok {
		out = append(out, c.Check()...)
	}
	return out
}

// ValidID 路径参数 id 必须是 uuid
func ValidID(id string) bool {
	return validate.Var(id, "required,uuid") == nil
}

// fieldPath 去掉根结构体名：CreateThemeRequest.tags[0] -> tags[0]
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	f := fieldPath(fe)
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", f)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", f)
	case "uuid":
		return fmt.Sprintf("%s must be a UUID", f)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", f)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, fe.Param())
	case "min":
		if isList(fe) {
			return fmt.Sprintf("%s must contain at least %s items", f, fe.Param())
		}
		if isString(fe) {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		if isList(fe) {
			return fmt.Sprintf("%s must contain at most %s items", f, fe.Param())
		}
		if isString(fe) {
			return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", f, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", f)
	}
}

func isList(fe validator.FieldError) bool {
	k := fe.Kind()
	return k == reflect.Slice || k == reflect.Array
}

func isString(fe validator.FieldError) bool { return fe.Kind() == reflect.String }
