package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kvizarena/api/internal/apperr"
	"github.com/kvizarena/api/internal/dto"
	"github.com/kvizarena/api/internal/middleware"
	"github.com/kvizarena/api/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(as service.AuthService) *AuthController {
	return &AuthController{authService: as}
}

// GoogleLogin godoc
// @Summary Sign in with a Google ID token
// @Description Verifies the Google ID token, upserts the user, and returns an API token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Token verification failed"
// @Router /auth/google [post]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := c.authService.LoginWithGoogle(req.IDToken)
	if err != nil {
		log.Warn().Err(err).Msg("Google login failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DevLogin godoc
// @Summary Sign in as a named development user
// @Description Creates or reuses a local admin user by name. Disabled unless ALLOW_DEV_LOGIN is set.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.DevLoginRequest true "Development user name"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Dev login disabled"
// @Router /auth/dev-login [post]
func (c *AuthController) DevLogin(ctx *gin.Context) {
	var req dto.DevLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := c.authService.DevLogin(req.Name)
	if err != nil {
		log.Warn().Err(err).Str("name", req.Name).Msg("Dev login rejected")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AnonymousLogin godoc
// @Summary Play as a guest with just a nickname
// @Description Creates a fresh nickname-only user and returns an API token for it.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.AnonymousLoginRequest true "Guest nickname"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /auth/anonymous [post]
func (c *AuthController) AnonymousLogin(ctx *gin.Context) {
	var req dto.AnonymousLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := c.authService.AnonymousLogin(req.Name)
	if err != nil {
		log.Warn().Err(err).Str("name", req.Name).Msg("Anonymous login failed")
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserDTO
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	user, err := c.authService.CurrentUser(userID)
	if err != nil {
		ctx.JSON(apperr.HTTPStatus(err), apperr.Body(err))
		return
	}
	ctx.JSON(http.StatusOK, user)
}
