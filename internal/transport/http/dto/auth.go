package dto

import (
	"strings"

	"theme-catalog/internal/domain"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
}

func (r *RegisterRequest) Input() domain.CreateUserInput {
	return domain.CreateUserInput{
		Email:     strings.TrimSpace(r.Email),
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest 缺省字段不修改
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  *string `json:"password" validate:"omitempty,min=6,max=72,maxbytes=72"`
	FirstName *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	IsActive  *bool   `json:"isActive"`
}

func (r *UpdateUserRequest) Patch() domain.UserPatch {
	p := domain.UserPatch{
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		IsActive:  r.IsActive,
	}
	if r.Email != nil {
		e := strings.TrimSpace(*r.Email)
		p.Email = &e
	}
	return p
}
