package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/api/metrics"
	"github.com/accounthub/user-service/internal/api/middleware"
	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a new user account and issues its first token.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration payload"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		UserID:    result.User.ID,
		Token:     result.Token,
		FirstName: result.User.FirstName,
		LastName:  result.User.LastName,
		Email:     result.User.Email,
	})
}

// Login exchanges credentials for a fresh token bound to the user's current
// version.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Router       /login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, UserID: result.User.ID})
}

// List returns the public profiles of all users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        x-authentication-token  header  string  true  "Bearer token"
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}

// Update applies a partial self-update to the authenticated user's profile.
// The ownership check runs before payload parsing so that a foreign-id probe
// is answered with 403 even without a body.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        x-authentication-token  header  string  true  "Bearer token"
// @Param        id    path      string                true  "User id"
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor := middleware.UserFromContext(c)
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	targetID := c.Param("id")
	if actor.ID != targetID {
		return domain.ErrForbidden
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), actor.ID, targetID, ports.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	metrics.ProfileUpdatesTotal.Inc()
	return c.JSON(http.StatusOK, updated)
}

func registerResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "validation_failed"
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return "rejected"
	}
	return "error"
}
