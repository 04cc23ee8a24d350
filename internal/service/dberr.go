package service

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"theme-catalog/internal/domain"
)

// SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// 唯一键字段 -> 冲突提示
var uniqueMessages = map[string]string{
	"email": "email already registered",
	"name":  "theme name already exists",
}

// translateDBError 存储层错误统一转成 domain.Error；原始错误只进日志
func translateDBError(log *zap.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	log.Error("db error", zap.String("op", op), zap.Error(err))

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return domain.Internal("internal server error", err)
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &domain.Error{Kind: domain.KindConflict, Msg: uniqueMessage(pgErr), Err: err}
	case pgForeignKeyViolation:
		return &domain.Error{Kind: domain.KindConflict, Msg: "cannot delete or modify, related records exist", Err: err}
	case pgCheckViolation:
		return &domain.Error{Kind: domain.KindConflict, Msg: "data does not meet constraints", Err: err}
	default:
		return domain.Internal("internal server error", err)
	}
}

// uniqueMessage Detail 形如 `Key (email)=(a@x.com) already exists.`；取不到时看约束名
func uniqueMessage(e *pgconn.PgError) string {
	if field := detailKey(e.Detail); field != "" {
		if msg, ok := uniqueMessages[field]; ok {
			return msg
		}
	}
	for field, msg := range uniqueMessages {
		if strings.Contains(e.ConstraintName, "_"+field+"_") || strings.HasSuffix(e.ConstraintName, "_"+field) {
			return msg
		}
	}
	return "record already exists"
}

func detailKey(detail string) string {
	start := strings.Index(detail, "Key (")
	if start < 0 {
		return ""
	}
	rest := detail[start+len("Key ("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
