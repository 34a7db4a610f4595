package handler

import (
	"context"
	"net/http"

	"github.com/martinmohammed/auth-service/internal/adapter/http/handler/dto"
	"github.com/martinmohammed/auth-service/internal/domain/models"
	"github.com/martinmohammed/auth-service/pkg/logger"
	wrap "github.com/martinmohammed/auth-service/pkg/logger/wrapper"
	"github.com/martinmohammed/auth-service/pkg/validator"
)

type AuthService interface {
	Register(ctx context.Context, req *models.UserCreateRequest) (*models.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user and returns an access/refresh token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "Credentials"
// @Success      200 {object} dto.TokenPairResponse
// @Failure      409 {object} map[string]any
// @Failure      422 {object} map[string]any
// @Router       /auth/register [post]
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_user")

	req := &dto.RegisterRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Error(ctx, "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRegister(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	pair, err := h.auth.Register(ctx, req.ToModel())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register a new user", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

// Login godoc
// @Summary      Log in
// @Description  Validates credentials and returns a fresh token pair; any previous refresh token for the user is invalidated
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200 {object} dto.TokenPairResponse
// @Failure      401 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Failure      422 {object} map[string]any
// @Router       /auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_user")

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	pair, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to login user", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

// Refresh godoc
// @Summary      Rotate the token pair
// @Description  Exchanges a valid refresh token for a new pair; the presented token stops working
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh token"
// @Success      200 {object} dto.TokenPairResponse
// @Failure      400 {object} map[string]any
// @Failure      401 {object} map[string]any
// @Router       /auth/refresh-token [post]
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_token")

	req := &dto.RefreshTokenRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	pair, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to refresh token pair", err)
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented refresh token
// @Tags         Auth
// @Accept       json
// @Param        request body dto.RefreshTokenRequest true "Refresh token"
// @Success      204
// @Failure      400 {object} map[string]any
// @Failure      401 {object} map[string]any
// @Router       /auth/logout [delete]
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "logout_user")

	req := &dto.RefreshTokenRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.auth.Logout(ctx, req.RefreshToken); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to logout user", err)
		serviceErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Profile godoc
// @Summary      Current token claims
// @Description  Returns the decoded claims of the presented access token
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Failure      401 {object} map[string]any
// @Router       /auth/me [get]
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_profile")

	claims := models.ClaimsFromContext(ctx)
	if claims == nil {
		h.l.Warn(ctx, "no claims attached to request context")
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	response := envelope{
		"subject":   claims.Subject,
		"issuer":    claims.Issuer,
		"audience":  claims.Audience,
		"issuedAt":  claims.IssuedAt,
		"expiresAt": claims.ExpiresAt,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}
