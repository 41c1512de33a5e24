package handler

import (
	"net/http"

	deliverycontext "quill/internal/delivery/context"
	"quill/internal/delivery/http/response"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/errors"
	"quill/internal/infra/metrics"
	"quill/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthHandler serves registration, login and the current identity.
type AuthHandler struct {
	uc      usecase.AuthUsecase
	metrics *metrics.Metrics
}

func NewAuthHandler(uc usecase.AuthUsecase, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{uc: uc, metrics: m}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	view, err := h.uc.Register(c.Request().Context(), &input)
	h.observe("register", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, view, "User registered successfully")
}

func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	h.observe("login", err)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Me returns the claims the auth middleware verified.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := deliverycontext.GetClaims(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrInvalidToken)
	}

	return response.Success(c, http.StatusOK, usecase.NewClaimsView(claims), "Token is valid")
}

func (h *AuthHandler) observe(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = domainerrors.KindOf(err).String()
	}

	h.metrics.ObserveAuth(operation, outcome)
}
