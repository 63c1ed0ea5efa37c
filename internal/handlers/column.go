package handlers

import (
	"net/http"
	"strings"

	"taskboard-be/internal/models"
	"taskboard-be/internal/realtime"
	"taskboard-be/internal/repository"

	"github.com/gin-gonic/gin"
)

type ColumnHandler struct {
	projectRepo *repository.ProjectRepository
	columnRepo  *repository.ColumnRepository
	hub         *realtime.Hub
}

func NewColumnHandler(projectRepo *repository.ProjectRepository, columnRepo *repository.ColumnRepository, hub *realtime.Hub) *ColumnHandler {
	return &ColumnHandler{
		projectRepo: projectRepo,
		columnRepo:  columnRepo,
		hub:         hub,
	}
}

// Create godoc
// @Summary Add a column to a project
// @Tags columns
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body models.CreateColumnRequest true "Column data"
// @Success 201 {object} models.Column
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /projects/{projectId}/columns [post]
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	var req models.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Column label is required",
		})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindAuthorized(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	// Labels are unique per project under case folding; "Done" and "done"
	// are the same column.
	if existing, _ := h.columnRepo.FindByLabel(ctx, projectID, label); existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "duplicate_column",
			Message: "A column with this name already exists",
		})
		return
	}

	order, err := h.columnRepo.NextOrder(ctx, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create column"})
		return
	}

	color := req.Color
	if color == "" {
		color = "gray"
	}

	column := &models.Column{
		Label:     label,
		Color:     color,
		ProjectID: projectID,
		Order:     order,
		CreatedBy: userID,
	}
	if err := h.columnRepo.Create(ctx, column); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create column"})
		return
	}

	h.hub.Broadcast(projectID.Hex(), "column_created", realtime.Envelope(
		"column_create", userID.Hex(), currentUserName(c), map[string]interface{}{
			"column": gin.H{
				"_id":       column.ID.Hex(),
				"label":     column.Label,
				"color":     column.Color,
				"order":     column.Order,
				"taskCount": 0,
			},
		},
	))

	c.JSON(http.StatusCreated, column)
}
