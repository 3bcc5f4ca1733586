package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"groupgetaway/internal/delivery/http/helpers"
	"groupgetaway/internal/domain"
)

const dateLayout = "2006-01-02"

type InterestController struct {
	Logger  *slog.Logger
	Service domain.InterestService
}

func NewInterestController(logger *slog.Logger, svc domain.InterestService) *InterestController {
	return &InterestController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateInterestRequest is the request body for POST /interests.
type CreateInterestRequest struct {
	DestinationID   string   `json:"destination_id"`
	UserName        string   `json:"user_name"`
	UserEmail       string   `json:"user_email"`
	UserPhone       *string  `json:"user_phone,omitempty"`
	NumPeople       int      `json:"num_people"`
	DateFrom        string   `json:"date_from"`
	DateTo          string   `json:"date_to"`
	BudgetMin       *float64 `json:"budget_min,omitempty"`
	BudgetMax       *float64 `json:"budget_max,omitempty"`
	SpecialRequests *string  `json:"special_requests,omitempty"`
	ClientUUID      string   `json:"client_uuid"`
}

// Validate implements helpers.Validator.
func (c *CreateInterestRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.DestinationID) == "" {
		errs = append(errs, "destination_id is required")
	}
	if strings.TrimSpace(c.UserName) == "" {
		errs = append(errs, "user_name is required")
	}
	if strings.TrimSpace(c.UserEmail) == "" {
		errs = append(errs, "user_email is required")
	}
	if c.NumPeople < 1 {
		errs = append(errs, "num_people must be at least 1")
	}
	if _, err := time.Parse(dateLayout, c.DateFrom); err != nil {
		errs = append(errs, "date_from must be a date in YYYY-MM-DD format")
	}
	if _, err := time.Parse(dateLayout, c.DateTo); err != nil {
		errs = append(errs, "date_to must be a date in YYYY-MM-DD format")
	}
	if strings.TrimSpace(c.ClientUUID) == "" {
		errs = append(errs, "client_uuid is required")
	}
	return errs
}

func (c *CreateInterestRequest) toDomain() *domain.Interest {
	dateFrom, _ := time.Parse(dateLayout, c.DateFrom)
	dateTo, _ := time.Parse(dateLayout, c.DateTo)
	return &domain.Interest{
		DestinationID:   strings.TrimSpace(c.DestinationID),
		UserName:        c.UserName,
		UserEmail:       c.UserEmail,
		UserPhone:       c.UserPhone,
		NumPeople:       c.NumPeople,
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		BudgetMin:       c.BudgetMin,
		BudgetMax:       c.BudgetMax,
		SpecialRequests: c.SpecialRequests,
		ClientUUID:      strings.TrimSpace(c.ClientUUID),
	}
}

// Create godoc
// @Summary Express interest in a destination
// @Description Registers a traveler's interest in joining a group trip. client_uuid is an idempotency key: resubmitting the same value returns the original interest (200) instead of creating a duplicate (201).
// @Tags interests
// @Accept json
// @Produce json
// @Param body body CreateInterestRequest true "Interest data"
// @Success 200 {object} helpers.APIResponse "Replay of an earlier submission"
// @Success 201 {object} helpers.APIResponse "New interest created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interests [post]
func (c *InterestController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInterestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	interest := req.toDomain()
	created, err := c.Service.Submit(r.Context(), interest)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, interest)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, interest)
}

// InterestListResponse is the data payload for GET /interests.
type InterestListResponse struct {
	Interests  []*domain.Interest     `json:"interests"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// List godoc
// @Summary List interests (operator)
// @Description Lists interest requests, optionally filtered by destination_id and status.
// @Tags interests
// @Produce json
// @Security BearerAuth
// @Param destination_id query string false "Destination ID"
// @Param status query string false "Interest status (open, matched, converted, cancelled)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interests [get]
func (c *InterestController) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.InterestFilter{
		DestinationID: r.URL.Query().Get("destination_id"),
		Status:        domain.InterestStatus(r.URL.Query().Get("status")),
	}
	p := helpers.ParsePagination(r)

	interests, total, err := c.Service.List(r.Context(), filter, p)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InterestListResponse{
		Interests:  interests,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}
