package handlers

import (
	"log"
	"net/http"
	"strings"

	"taskboard-be/internal/models"
	"taskboard-be/internal/realtime"
	"taskboard-be/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
	columnRepo  *repository.ColumnRepository
	taskRepo    *repository.TaskRepository
	commentRepo *repository.CommentRepository
	userRepo    *repository.UserRepository
	hub         *realtime.Hub
}

func NewProjectHandler(
	projectRepo *repository.ProjectRepository,
	columnRepo *repository.ColumnRepository,
	taskRepo *repository.TaskRepository,
	commentRepo *repository.CommentRepository,
	userRepo *repository.UserRepository,
	hub *realtime.Hub,
) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		columnRepo:  columnRepo,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		hub:         hub,
	}
}

// List godoc
// @Summary List the caller's projects with progress
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string][]models.ProjectSummary
// @Failure 500 {object} models.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	summaries, err := h.projectRepo.ListSummaries(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}
	if summaries == nil {
		summaries = []models.ProjectSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"projects": summaries})
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param payload body models.CreateProjectRequest true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Project name is required",
		})
		return
	}

	ctx := c.Request.Context()

	// Name is unique per owner
	if existing, _ := h.projectRepo.FindByNameAndOwner(ctx, name, userID); existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "duplicate_project",
			Message: "A project with this name already exists",
		})
		return
	}

	color := req.Color
	if color == "" {
		color = "blue"
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Color:       color,
		OwnerID:     userID,
	}

	if err := h.projectRepo.Create(ctx, project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ViewBoard godoc
// @Summary Get the project board: columns with tasks and comment counts
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId} [get]
func (h *ProjectHandler) ViewBoard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	project, err := h.projectRepo.FindAuthorized(ctx, projectID, userID)
	if err != nil {
		deniedResponse(c)
		return
	}

	// Best-effort; the board still renders if the stamp fails.
	if err := h.projectRepo.StampLastViewed(ctx, projectID, userID); err != nil {
		log.Println("failed to stamp last viewed:", err)
	}

	columns, err := h.columnRepo.BoardView(ctx, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}
	if columns == nil {
		columns = []models.BoardColumn{}
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"columns": columns,
	})
}

// ListMembers godoc
// @Summary List project members
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	project, err := h.projectRepo.FindAuthorized(ctx, projectID, userID)
	if err != nil {
		deniedResponse(c)
		return
	}

	users, err := h.userRepo.FindByIDs(ctx, project.Members)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load members"})
		return
	}

	members := make([]models.ProjectMember, 0, len(users))
	for _, u := range users {
		members = append(members, models.ProjectMember{
			ID:      u.ID,
			Name:    u.Name,
			Email:   u.Email,
			Picture: u.Picture,
			IsOwner: u.ID == project.OwnerID,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members,
		"isOwner": userID == project.OwnerID,
	})
}

// AddMember godoc
// @Summary Add a member by email (owner only)
// @Tags projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body models.AddMemberRequest true "Member email"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	project, err := h.projectRepo.FindOwned(ctx, projectID, userID)
	if err != nil {
		deniedResponse(c)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	member, err := h.userRepo.FindByEmail(ctx, email)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "user_not_found",
			Message: "User with this email not found",
		})
		return
	}

	if project.HasMember(member.ID) {
		c.JSON(http.StatusOK, gin.H{
			"added":   false,
			"message": "This user is already a member of the project",
		})
		return
	}

	modified, err := h.projectRepo.AddMember(ctx, projectID, member.ID)
	if err != nil || !modified {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member to project"})
		return
	}

	h.hub.Broadcast(projectID.Hex(), "member_added", realtime.Envelope(
		"member_add", userID.Hex(), currentUserName(c), map[string]interface{}{
			"memberId":   member.ID.Hex(),
			"memberName": member.Name,
		},
	))

	c.JSON(http.StatusOK, gin.H{
		"added":   true,
		"message": "Successfully added " + member.Name + " to the project",
	})
}

// RemoveMember godoc
// @Summary Remove a member (owner only)
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId}/members/{memberId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}
	memberID, ok := pathObjectID(c, "memberId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindOwned(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	// The owner stays a member for the project's lifetime.
	if memberID == userID {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "You cannot remove yourself from the project",
		})
		return
	}

	modified, err := h.projectRepo.RemoveMember(ctx, projectID, memberID)
	if err != nil || !modified {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member from project"})
		return
	}

	memberName := "Unknown"
	if member, err := h.userRepo.FindByID(ctx, memberID); err == nil {
		memberName = member.Name
	}

	h.hub.Broadcast(projectID.Hex(), "member_removed", realtime.Envelope(
		"member_remove", userID.Hex(), currentUserName(c), map[string]interface{}{
			"memberId":   memberID.Hex(),
			"memberName": memberName,
		},
	))

	c.JSON(http.StatusOK, gin.H{
		"removed": true,
		"message": "Successfully removed " + memberName + " from the project",
	})
}

// DeleteSummary godoc
// @Summary Counts shown before deleting a project (owner only)
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} models.DeleteSummary
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId}/delete-summary [get]
func (h *ProjectHandler) DeleteSummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	project, err := h.projectRepo.FindOwned(ctx, projectID, userID)
	if err != nil {
		deniedResponse(c)
		return
	}

	tasksCount, err := h.taskRepo.CountByProject(ctx, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks"})
		return
	}
	columnsCount, err := h.columnRepo.CountByProject(ctx, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count columns"})
		return
	}

	c.JSON(http.StatusOK, models.DeleteSummary{
		TasksCount:   tasksCount,
		ColumnsCount: columnsCount,
		MembersCount: len(project.Members),
	})
}

// Delete godoc
// @Summary Delete a project and everything under it (owner only)
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	project, err := h.projectRepo.FindOwned(ctx, projectID, userID)
	if err != nil {
		deniedResponse(c)
		return
	}

	// Cascade: children first, the project record last. Not transactional;
	// the cleanup worker repairs orphans if a crash interleaves.
	tasksDeleted, err := h.taskRepo.DeleteByProject(ctx, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project tasks"})
		return
	}
	columnsDeleted, err := h.columnRepo.DeleteByProject(ctx, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project columns"})
		return
	}
	if _, err := h.commentRepo.DeleteByProject(ctx, projectID); err != nil {
		log.Println("failed to delete project comments:", err)
	}

	deleted, err := h.projectRepo.Delete(ctx, projectID)
	if err != nil || deleted == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	h.hub.Broadcast(projectID.Hex(), "project_deleted", realtime.Envelope(
		"project_delete", userID.Hex(), currentUserName(c), map[string]interface{}{
			"projectId":   projectID.Hex(),
			"projectName": project.Name,
		},
	))

	c.JSON(http.StatusOK, gin.H{
		"deleted":        true,
		"message":        "Project \"" + project.Name + "\" and all associated data deleted successfully",
		"tasksDeleted":   tasksDeleted,
		"columnsDeleted": columnsDeleted,
	})
}
