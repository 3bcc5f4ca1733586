package controllers

import (
	"log/slog"
	"net/http"

	"groupgetaway/internal/delivery/http/helpers"
	"groupgetaway/internal/domain"
)

type ClusteringController struct {
	Logger  *slog.Logger
	Service domain.ClusteringService
}

func NewClusteringController(logger *slog.Logger, svc domain.ClusteringService) *ClusteringController {
	return &ClusteringController{
		Logger:  logger,
		Service: svc,
	}
}

// Trigger godoc
// @Summary Run the clustering pass over all open interests
// @Description Groups compatible open interests into new groups across all active destinations. Running it again without new interests creates nothing.
// @Tags clustering
// @Produce json
// @Param force query string false "Set to true to rebuild even when the pool is unchanged"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Security BearerAuth
// @Router /clustering/trigger [post]
func (c *ClusteringController) Trigger(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	result, err := c.Service.Run(r.Context(), force)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "clustering run failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
