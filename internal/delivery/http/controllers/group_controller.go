package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"groupgetaway/internal/delivery/http/helpers"
	"groupgetaway/internal/domain"
)

type GroupController struct {
	Logger        *slog.Logger
	Groups        domain.GroupService
	Confirmations domain.ConfirmationService
}

func NewGroupController(logger *slog.Logger, groups domain.GroupService, confirmations domain.ConfirmationService) *GroupController {
	return &GroupController{
		Logger:        logger,
		Groups:        groups,
		Confirmations: confirmations,
	}
}

// GroupListResponse is the paginated group listing payload.
type GroupListResponse struct {
	Groups     []*domain.Group        `json:"groups"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// List godoc
// @Summary List groups
// @Description Admin listing of groups, optionally filtered by destination and status.
// @Tags groups
// @Produce json
// @Param destination_id query string false "Filter by destination"
// @Param status query string false "Filter by status (forming, confirmed, full, cancelled)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse{data=GroupListResponse}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /groups [get]
func (c *GroupController) List(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	filter := domain.GroupFilter{
		DestinationID: r.URL.Query().Get("destination_id"),
		Status:        domain.GroupStatus(r.URL.Query().Get("status")),
	}

	groups, total, err := c.Groups.List(r.Context(), filter, p)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GroupListResponse{
		Groups:     groups,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// Get godoc
// @Summary Get a group with its confirmations
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse{data=domain.GroupWithConfirmations}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /groups/{groupID} [get]
func (c *GroupController) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("groupID")

	group, err := c.Groups.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "group not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, group)
}

// SendConfirmations godoc
// @Summary Send confirmation emails to all pending members of a group
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /groups/{groupID}/send-confirmations [post]
func (c *GroupController) SendConfirmations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("groupID")

	sent, err := c.Confirmations.SendConfirmations(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "group not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]int{"sent": sent})
}
