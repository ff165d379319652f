package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberdesk/identity-system/internal/api/metrics"
	"github.com/memberdesk/identity-system/internal/api/middleware"
	"github.com/memberdesk/identity-system/internal/core/domain"
	"github.com/memberdesk/identity-system/internal/core/ports"
)

// AuthHandler exposes registration, login, logout, and the derived view state
// consumed by the presentation layer. Every response carries a navigation
// instruction: the view to show next plus a status flag.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// View names handed to the presentation layer.
const (
	ViewLogin     = "login"
	ViewRegister  = "register"
	ViewDashboard = "dashboard"
)

// Status flags carried alongside the view.
const (
	StatusNone       = "none"
	StatusRegistered = "registered"
	StatusDuplicate  = "duplicate"
	StatusInvalid    = "invalid-credentials"
	StatusFailed     = "failed"
)

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type navigationResponse struct {
	View    string          `json:"view"`
	Status  string          `json:"status"`
	Token   string          `json:"token,omitempty"`
	Session *domain.Session `json:"session,omitempty"`
}

// Register creates a new account with role "user".
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form fields"
// @Success      201   {object}  navigationResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  navigationResponse
// @Failure      500   {object}  navigationResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return c.JSON(http.StatusConflict, navigationResponse{View: ViewRegister, Status: StatusDuplicate})
		case errors.Is(err, domain.ErrMissingField):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing required field"})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, navigationResponse{View: ViewRegister, Status: StatusFailed})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, navigationResponse{View: ViewLogin, Status: StatusRegistered})
}

// Login authenticates an account and issues a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  navigationResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  navigationResponse
// @Failure      500   {object}  navigationResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	token, session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusUnauthorized, navigationResponse{View: ViewLogin, Status: StatusInvalid})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return c.JSON(http.StatusInternalServerError, navigationResponse{View: ViewLogin, Status: StatusFailed})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, navigationResponse{
		View:    ViewDashboard,
		Status:  StatusNone,
		Token:   token,
		Session: session,
	})
}

// Logout destroys the presented session, if any. Calling it without a session
// succeeds all the same.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  navigationResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get(middleware.TokenKey).(string)

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, navigationResponse{View: ViewLogin, Status: StatusNone})
}

type viewResponse struct {
	View    string          `json:"view"`
	Admin   bool            `json:"admin"`
	Session *domain.Session `json:"session,omitempty"`
}

// View derives the screen the presentation layer should render from the
// current session and the mode hint. The mode hint only ever selects between
// the anonymous views; it carries no authority.
//
// @Summary      Derive the current view state
// @Tags         auth
// @Produce      json
// @Param        mode  query     string  false  "Anonymous view hint: login or register"
// @Success      200   {object}  viewResponse
// @Router       /view [get]
func (h *AuthHandler) View(c echo.Context) error {
	session, _ := c.Get(middleware.SessionKey).(*domain.Session)
	if session == nil {
		view := ViewLogin
		if c.QueryParam("mode") == ViewRegister {
			view = ViewRegister
		}
		return c.JSON(http.StatusOK, viewResponse{View: view})
	}

	return c.JSON(http.StatusOK, viewResponse{
		View:    ViewDashboard,
		Admin:   session.IsAdmin(),
		Session: session,
	})
}
