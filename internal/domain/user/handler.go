package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sghss/sghss/internal/platform/token"
)

type Handler struct {
	svc    *Service
	codec  *token.Codec
	logger zerolog.Logger
}

func NewHandler(svc *Service, codec *token.Codec, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, codec: codec, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
			h.logger.Info().Str("username", req.Username).Msg("registration conflict")
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidPassword):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("registration failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "registration failed")
		}
	}

	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.svc.VerifyCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		// The distinction between an unknown user and a wrong password
		// stays in the debug log; callers only ever see the generic
		// invalid-credentials failure.
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrBadPassword) {
			h.logger.Debug().Err(err).Str("username", req.Username).Msg("login rejected")
			return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		}
		h.logger.Error().Err(err).Msg("login failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	tokenStr, err := h.codec.Issue(u.Username, time.Now())
	if err != nil {
		h.logger.Error().Err(err).Msg("token issuance failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: tokenStr,
		TokenType:   "Bearer",
	})
}
