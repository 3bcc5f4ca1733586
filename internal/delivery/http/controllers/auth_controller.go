package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"groupgetaway/internal/delivery/http/helpers"
	"groupgetaway/internal/domain"
)

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUpRequest is the request body for POST /auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Validate implements helpers.Validator.
func (r *SignUpRequest) Validate() []string {
	var errs []string
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, "email is not valid")
	}
	if len(r.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.Role != "" && r.Role != domain.RoleAdmin && r.Role != domain.RoleOperator {
		errs = append(errs, "role must be admin or operator")
	}
	return errs
}

// SignUp godoc
// @Summary Create an operator account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Account data"
// @Success 201 {object} helpers.APIResponse{data=domain.User}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	role := req.Role
	if role == "" {
		role = domain.RoleOperator
	}

	user, err := c.Service.SignUp(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password, strings.TrimSpace(req.Name), role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (r *LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login godoc
// @Summary Log in and get a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} helpers.APIResponse{data=LoginResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := c.Service.Login(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "invalid email or password")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, User: user})
}
