package user

import (
	domain "pingo-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	return &domain.User{
		ID:        domain.ID(model.ID),
		Username:  model.Username,
		Email:     model.Email,
		Avatar:    model.Avatar,
		IsAdmin:   model.IsAdmin,
		CreatedAt: model.CreatedAt,
	}
}
