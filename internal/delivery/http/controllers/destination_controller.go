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

type DestinationController struct {
	Logger  *slog.Logger
	Service domain.DestinationService
}

func NewDestinationController(logger *slog.Logger, svc domain.DestinationService) *DestinationController {
	return &DestinationController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List active destinations
// @Tags destinations
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=[]domain.Destination}
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /destinations [get]
func (c *DestinationController) List(w http.ResponseWriter, r *http.Request) {
	destinations, err := c.Service.ListActive(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, destinations)
}

// Get godoc
// @Summary Get a destination
// @Tags destinations
// @Produce json
// @Param destinationID path string true "Destination ID"
// @Success 200 {object} helpers.APIResponse{data=domain.Destination}
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /destinations/{destinationID} [get]
func (c *DestinationController) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("destinationID")

	dest, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "destination not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, dest)
}

// CreateDestinationRequest is the request body for POST /destinations.
type CreateDestinationRequest struct {
	Name                    string                `json:"name"`
	Country                 string                `json:"country"`
	BasePrice               float64               `json:"base_price"`
	Currency                string                `json:"currency"`
	MinGroupSize            int                   `json:"min_group_size"`
	MaxGroupSize            int                   `json:"max_group_size"`
	MaxDiscount             float64               `json:"max_discount"`
	DiscountPerMember       float64               `json:"discount_per_member"`
	ConfirmationWindowHours int                   `json:"confirmation_window_hours"`
	Itinerary               []domain.ItineraryDay `json:"itinerary"`
	Active                  bool                  `json:"active"`
}

// Validate implements helpers.Validator.
func (r *CreateDestinationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.BasePrice <= 0 {
		errs = append(errs, "base_price must be positive")
	}
	if r.MinGroupSize < 1 {
		errs = append(errs, "min_group_size must be at least 1")
	}
	if r.MaxGroupSize < r.MinGroupSize {
		errs = append(errs, "max_group_size must be at least min_group_size")
	}
	if r.MaxDiscount < 0 || r.MaxDiscount >= 1 {
		errs = append(errs, "max_discount must be in [0, 1)")
	}
	if r.DiscountPerMember < 0 {
		errs = append(errs, "discount_per_member must not be negative")
	}
	if r.ConfirmationWindowHours < 1 {
		errs = append(errs, "confirmation_window_hours must be at least 1")
	}
	return errs
}

func (r *CreateDestinationRequest) toDomain() *domain.Destination {
	return &domain.Destination{
		Name:               strings.TrimSpace(r.Name),
		Country:            strings.TrimSpace(r.Country),
		BasePrice:          r.BasePrice,
		Currency:           r.Currency,
		MinGroupSize:       r.MinGroupSize,
		MaxGroupSize:       r.MaxGroupSize,
		MaxDiscount:        r.MaxDiscount,
		DiscountPerMember:  r.DiscountPerMember,
		ConfirmationWindow: time.Duration(r.ConfirmationWindowHours) * time.Hour,
		Itinerary:          r.Itinerary,
		Active:             r.Active,
	}
}

// Create godoc
// @Summary Create a destination
// @Tags destinations
// @Accept json
// @Produce json
// @Param body body CreateDestinationRequest true "Destination data"
// @Success 201 {object} helpers.APIResponse{data=domain.Destination}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /destinations [post]
func (c *DestinationController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDestinationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	dest := req.toDomain()
	if err := c.Service.Create(r.Context(), dest); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, dest)
}
