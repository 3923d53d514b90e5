package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"linkboard/internal/service"
)

// PluginHandler serves the public feed embedded by third-party sites.
type PluginHandler struct {
	pluginService service.PluginService
}

// NewPluginHandler creates a new plugin handler.
func NewPluginHandler(pluginService service.PluginService) *PluginHandler {
	return &PluginHandler{pluginService: pluginService}
}

// ApprovedPosts godoc
// @Summary Public feed of approved posts
// @Tags plugin
// @Produce json
// @Success 200 {object} ApiResponse{data=service.ApprovedFeed}
// @Failure 500 {object} errors.ErrorResponse
// @Router /plugin/ [get]
func (h *PluginHandler) ApprovedPosts(c echo.Context) error {
	feed, err := h.pluginService.AllApproved(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, feed, "Approved posts fetched successfully")
}
