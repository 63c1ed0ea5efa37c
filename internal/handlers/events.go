package handlers

import (
	"io"

	"taskboard-be/internal/realtime"
	"taskboard-be/internal/repository"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	projectRepo *repository.ProjectRepository
	hub         *realtime.Hub
}

func NewEventsHandler(projectRepo *repository.ProjectRepository, hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{
		projectRepo: projectRepo,
		hub:         hub,
	}
}

// Stream godoc
// @Summary Subscribe to a project's realtime events over SSE
// @Tags events
// @Security ApiKeyAuth
// @Produce text/event-stream
// @Param projectId path string true "Project ID"
// @Success 200 {string} string "event stream"
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId}/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	if _, err := h.projectRepo.FindAuthorized(c.Request.Context(), projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	sub := h.hub.Subscribe(projectID.Hex())
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case ev, open := <-sub.Events():
			if !open {
				return false
			}
			c.SSEvent(ev.Name, ev.Payload)
			return true
		}
	})
}
