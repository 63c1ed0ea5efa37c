package handlers

import (
	"net/http"
	"time"

	"taskboard-be/internal/models"
	"taskboard-be/internal/repository"
	"taskboard-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentHandler struct {
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	commentRepo *repository.CommentRepository
}

func NewCommentHandler(projectRepo *repository.ProjectRepository, taskRepo *repository.TaskRepository, commentRepo *repository.CommentRepository) *CommentHandler {
	return &CommentHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
	}
}

// gateTask resolves the access gate and the task in one place; every
// comment operation starts the same way.
func (h *CommentHandler) gateTask(c *gin.Context) (userID, projectID, taskID primitive.ObjectID, ok bool) {
	userID, ok = currentUser(c)
	if !ok {
		return
	}
	projectID, ok = pathObjectID(c, "projectId")
	if !ok {
		return
	}
	taskID, ok = pathObjectID(c, "taskId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindAuthorized(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return userID, projectID, taskID, false
	}
	if _, err := h.taskRepo.FindInProject(ctx, taskID, projectID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "task_not_found",
			Message: "Task not found",
		})
		return userID, projectID, taskID, false
	}
	return userID, projectID, taskID, true
}

// Create godoc
// @Summary Add a comment to a task
// @Tags comments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param payload body models.CommentRequest true "Comment text"
// @Success 201 {object} models.CommentView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/{taskId}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	userID, projectID, taskID, ok := h.gateTask(c)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	text := utils.SanitizeText(req.Comment)
	if text == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Comment text is required",
		})
		return
	}

	comment := &models.Comment{
		TaskID:    taskID,
		ProjectID: projectID,
		UserID:    userID,
		UserName:  currentUserName(c),
		Text:      text,
	}
	if err := h.commentRepo.Create(c.Request.Context(), comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, commentView(comment, userID))
}

// List godoc
// @Summary List a task's comments, newest first
// @Tags comments
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} map[string][]models.CommentView
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/{taskId}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	userID, _, taskID, ok := h.gateTask(c)
	if !ok {
		return
	}

	comments, err := h.commentRepo.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, commentView(&comments[i], userID))
	}

	c.JSON(http.StatusOK, gin.H{"comments": views})
}

// Update godoc
// @Summary Edit a comment (author only)
// @Tags comments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param commentId path string true "Comment ID"
// @Param payload body models.CommentRequest true "Comment text"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/{taskId}/comments/{commentId} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	userID, _, taskID, ok := h.gateTask(c)
	if !ok {
		return
	}
	commentID, ok := pathObjectID(c, "commentId")
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	text := utils.SanitizeText(req.Comment)
	if text == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Comment text is required",
		})
		return
	}

	ctx := c.Request.Context()

	// Authorship is part of the lookup filter; a non-author sees not-found.
	if _, err := h.commentRepo.FindByAuthor(ctx, commentID, taskID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "comment_not_found",
			Message: "Comment not found or you cannot edit it",
		})
		return
	}

	if _, err := h.commentRepo.UpdateText(ctx, commentID, text); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Delete godoc
// @Summary Delete a comment (author only)
// @Tags comments
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/{taskId}/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, _, taskID, ok := h.gateTask(c)
	if !ok {
		return
	}
	commentID, ok := pathObjectID(c, "commentId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.commentRepo.FindByAuthor(ctx, commentID, taskID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "comment_not_found",
			Message: "Comment not found or you cannot delete it",
		})
		return
	}

	deleted, err := h.commentRepo.Delete(ctx, commentID)
	if err != nil || !deleted {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func commentView(comment *models.Comment, viewer primitive.ObjectID) models.CommentView {
	return models.CommentView{
		ID:        comment.ID.Hex(),
		UserID:    comment.UserID.Hex(),
		UserName:  comment.UserName,
		Comment:   comment.Text,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		Edited:    comment.Edited,
		CanEdit:   comment.UserID == viewer,
	}
}
