package dto

import (
	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/pkg/validator"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) ToModel() *models.UserCreateRequest {
	return &models.UserCreateRequest{
		Email:    r.Email,
		Password: r.Password,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func ValidateRegister(v *validator.Validator, req *RegisterRequest) {
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(validator.Matches(req.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(len(req.Email) <= 500, "email", "must not be more than 500 bytes long")

	v.Check(req.Password != "", "password", "must be provided")
	v.Check(len(req.Password) >= 2, "password", "must be at least 2 bytes long")
	v.Check(len(req.Password) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(validator.Matches(req.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(req.Password != "", "password", "must be provided")
}
