package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"groupgetaway/internal/delivery/http/helpers"
	"groupgetaway/internal/domain"
)

type ConfirmationController struct {
	Logger  *slog.Logger
	Service domain.ConfirmationService
}

func NewConfirmationController(logger *slog.Logger, svc domain.ConfirmationService) *ConfirmationController {
	return &ConfirmationController{
		Logger:  logger,
		Service: svc,
	}
}

// Status godoc
// @Summary Get group summary and confirmation status for a token
// @Description Returns the group and the member's confirmation state. A pending confirmation past its deadline is resolved as expired before the status is returned.
// @Tags confirmations
// @Produce json
// @Param groupID path string true "Group ID"
// @Param token path string true "Confirmation token"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/confirm/{token} [get]
func (c *ConfirmationController) Status(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	token := r.PathValue("token")

	view, err := c.Service.StatusByToken(r.Context(), groupID, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "unknown confirmation token")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// RespondRequest is the request body for POST /groups/{groupID}/confirm/{token}.
type RespondRequest struct {
	Confirmed     *bool  `json:"confirmed"`
	DeclineReason string `json:"decline_reason,omitempty"`
}

// Validate implements helpers.Validator.
func (r *RespondRequest) Validate() []string {
	var errs []string
	if r.Confirmed == nil {
		errs = append(errs, "confirmed is required")
	}
	if r.Confirmed != nil && !*r.Confirmed && strings.TrimSpace(r.DeclineReason) == "" {
		errs = append(errs, "decline_reason is required when declining")
	}
	return errs
}

// Respond godoc
// @Summary Confirm or decline a group spot
// @Description Applies the member's confirm/decline. Each confirmation can be answered exactly once; responses past the deadline are rejected. On confirm the response carries payment_required and payment_url.
// @Tags confirmations
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param token path string true "Confirmation token"
// @Param body body RespondRequest true "Response"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already answered, deadline passed, or group full)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/confirm/{token} [post]
func (c *ConfirmationController) Respond(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	token := r.PathValue("token")

	var req RespondRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.Respond(r.Context(), groupID, token, *req.Confirmed, req.DeclineReason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "unknown confirmation token")
		case errors.Is(err, domain.ErrTokenExpired):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "the confirmation deadline has passed")
		case errors.Is(err, domain.ErrAlreadyResponded):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "this confirmation was already answered")
		case errors.Is(err, domain.ErrGroupFull):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "the group is already full")
		case errors.Is(err, domain.ErrMissingReason):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "decline_reason is required when declining")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// PaymentCallbackRequest is the request body for POST /payments/callback.
type PaymentCallbackRequest struct {
	ConfirmationID string `json:"confirmation_id"`
}

// Validate implements helpers.Validator.
func (r *PaymentCallbackRequest) Validate() []string {
	if strings.TrimSpace(r.ConfirmationID) == "" {
		return []string{"confirmation_id is required"}
	}
	return nil
}

// PaymentCallback godoc
// @Summary Payment collaborator callback
// @Description Marks a confirmed member's payment as received and converts their interest.
// @Tags confirmations
// @Accept json
// @Produce json
// @Param body body PaymentCallbackRequest true "Callback data"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/callback [post]
func (c *ConfirmationController) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req PaymentCallbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	err := c.Service.MarkPaid(r.Context(), strings.TrimSpace(req.ConfirmationID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "confirmation not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "paid"})
}
