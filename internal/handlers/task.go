package handlers

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"taskboard-be/internal/models"
	"taskboard-be/internal/realtime"
	"taskboard-be/internal/repository"
	"taskboard-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sahilm/fuzzy"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	projectRepo *repository.ProjectRepository
	columnRepo  *repository.ColumnRepository
	taskRepo    *repository.TaskRepository
	commentRepo *repository.CommentRepository
	userRepo    *repository.UserRepository
	hub         *realtime.Hub
}

func NewTaskHandler(
	projectRepo *repository.ProjectRepository,
	columnRepo *repository.ColumnRepository,
	taskRepo *repository.TaskRepository,
	commentRepo *repository.CommentRepository,
	userRepo *repository.UserRepository,
	hub *realtime.Hub,
) *TaskHandler {
	return &TaskHandler{
		projectRepo: projectRepo,
		columnRepo:  columnRepo,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		hub:         hub,
	}
}

// Create godoc
// @Summary Create a task in a column
// @Tags tasks
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body models.CreateTaskRequest true "Task data"
// @Success 201 {object} models.Task
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Task title is required",
		})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindAuthorized(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	columnID, err := primitive.ObjectIDFromHex(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_column",
			Message: "Invalid column",
		})
		return
	}
	if _, err := h.columnRepo.FindInProject(ctx, columnID, projectID); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_column",
			Message: "Invalid column",
		})
		return
	}

	dueDate, err := utils.ParseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid due date format, expected YYYY-MM-DD",
		})
		return
	}

	order, err := h.taskRepo.NextOrder(ctx, columnID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	assigneeName := currentUserName(c)
	task := &models.Task{
		Title:            title,
		Description:      utils.SanitizeText(req.Description),
		Type:             defaultString(req.Type, "task"),
		Priority:         defaultString(req.Priority, "medium"),
		DueDate:          dueDate,
		Labels:           utils.ParseLabels(req.Labels),
		ColumnID:         columnID,
		ProjectID:        projectID,
		CreatedBy:        userID,
		AssignedTo:       userID,
		AssigneeName:     assigneeName,
		AssigneeInitials: utils.Initials(assigneeName),
		Status:           models.TaskStatusTodo,
		Order:            order,
	}
	if err := h.taskRepo.Create(ctx, task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	h.hub.Broadcast(projectID.Hex(), "task_created", realtime.Envelope(
		"task_create", userID.Hex(), assigneeName, map[string]interface{}{
			"task":     task,
			"columnId": columnID.Hex(),
		},
	))

	c.JSON(http.StatusCreated, task)
}

// Move godoc
// @Summary Move a task to another column (always appended at the end)
// @Tags tasks
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param payload body models.MoveTaskRequest true "Move data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/move [post]
func (h *TaskHandler) Move(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	var req models.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindAuthorized(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	taskID, err := primitive.ObjectIDFromHex(req.TaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid task id",
		})
		return
	}
	task, err := h.taskRepo.FindInProject(ctx, taskID, projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "task_not_found",
			Message: "Task not found",
		})
		return
	}

	sourceID, errSrc := primitive.ObjectIDFromHex(req.SourceColumnID)
	targetID, errDst := primitive.ObjectIDFromHex(req.TargetColumnID)
	if errSrc != nil || errDst != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_columns",
			Message: "Invalid columns",
		})
		return
	}
	if _, err := h.columnRepo.FindInProject(ctx, sourceID, projectID); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_columns",
			Message: "Invalid columns",
		})
		return
	}
	if _, err := h.columnRepo.FindInProject(ctx, targetID, projectID); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_columns",
			Message: "Invalid columns",
		})
		return
	}

	// Append to the target: max(order)+1. The source column keeps its gaps.
	order, err := h.taskRepo.NextOrder(ctx, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move task"})
		return
	}

	moved, err := h.taskRepo.Move(ctx, taskID, targetID, order)
	if err != nil || !moved {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	h.hub.Broadcast(projectID.Hex(), "task_updated", realtime.Envelope(
		"task_move", userID.Hex(), currentUserName(c), map[string]interface{}{
			"taskId":         taskID.Hex(),
			"taskTitle":      task.Title,
			"sourceColumnId": sourceID.Hex(),
			"targetColumnId": targetID.Hex(),
			"order":          order,
		},
	))

	c.JSON(http.StatusOK, gin.H{
		"moved": true,
		"order": order,
	})
}

// Update godoc
// @Summary Update a task
// @Tags tasks
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param payload body models.UpdateTaskRequest true "Task data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/{taskId} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := pathObjectID(c, "taskId")
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindAuthorized(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	task, err := h.taskRepo.FindInProject(ctx, taskID, projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "task_not_found",
			Message: "Task not found",
		})
		return
	}

	columnID, err := primitive.ObjectIDFromHex(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_column",
			Message: "Invalid column",
		})
		return
	}
	if _, err := h.columnRepo.FindInProject(ctx, columnID, projectID); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_column",
			Message: "Invalid column",
		})
		return
	}

	dueDate, err := utils.ParseDueDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid due date format, expected YYYY-MM-DD",
		})
		return
	}

	set := bson.M{
		"title":       strings.TrimSpace(req.Title),
		"description": utils.SanitizeText(req.Description),
		"type":        defaultString(req.Type, task.Type),
		"priority":    defaultString(req.Priority, task.Priority),
		"labels":      utils.ParseLabels(req.Labels),
		"columnId":    columnID,
	}
	if dueDate != nil {
		set["dueDate"] = dueDate
	} else {
		set["dueDate"] = nil
	}
	if req.Status != "" {
		set["status"] = req.Status
	}

	if req.AssignedTo != "" {
		assigneeID, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid assignee id",
			})
			return
		}
		set["assignedTo"] = assigneeID
		if assignee, err := h.userRepo.FindByID(ctx, assigneeID); err == nil {
			set["assigneeName"] = assignee.Name
			set["assigneeInitials"] = utils.Initials(assignee.Name)
		} else {
			set["assigneeName"] = "Unassigned"
			set["assigneeInitials"] = "U"
		}
	}

	// Column changed: the task is appended to the new column, same rule as
	// an explicit move.
	if columnID != task.ColumnID {
		order, err := h.taskRepo.NextOrder(ctx, columnID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
			return
		}
		set["order"] = order
	}

	modified, err := h.taskRepo.Update(ctx, taskID, set)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	updated, err := h.taskRepo.FindInProject(ctx, taskID, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load task"})
		return
	}

	// A no-op write changes nothing on other viewers' boards; no event.
	if modified {
		h.hub.Broadcast(projectID.Hex(), "task_updated", realtime.Envelope(
			"task_update", userID.Hex(), currentUserName(c), map[string]interface{}{
				"task":     updated,
				"columnId": columnID.Hex(),
			},
		))
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": true,
		"task":    updated,
	})
}

// Delete godoc
// @Summary Delete a task and its comments
// @Tags tasks
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/{taskId} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := pathObjectID(c, "taskId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindAuthorized(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	// Title and column are needed for the event after the document is gone.
	task, err := h.taskRepo.FindInProject(ctx, taskID, projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "task_not_found",
			Message: "Task not found",
		})
		return
	}

	deleted, err := h.taskRepo.Delete(ctx, taskID)
	if err != nil || !deleted {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	if _, err := h.commentRepo.DeleteByTask(ctx, taskID); err != nil {
		// Orphaned comments are invisible (listed per task) and harmless;
		// the task is gone either way, so the event still goes out.
		log.Println("failed to delete task comments:", err)
	}

	h.hub.Broadcast(projectID.Hex(), "task_deleted", realtime.Envelope(
		"task_delete", userID.Hex(), currentUserName(c), map[string]interface{}{
			"taskId":    taskID.Hex(),
			"taskTitle": task.Title,
			"columnId":  task.ColumnID.Hex(),
		},
	))

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Detail godoc
// @Summary Get a task with display fields for the detail panel
// @Tags tasks
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} models.TaskDetail
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/{taskId} [get]
func (h *TaskHandler) Detail(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}
	taskID, ok := pathObjectID(c, "taskId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	project, err := h.projectRepo.FindAuthorized(ctx, projectID, userID)
	if err != nil {
		deniedResponse(c)
		return
	}

	task, err := h.taskRepo.FindInProject(ctx, taskID, projectID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "task_not_found",
			Message: "Task not found",
		})
		return
	}

	detail := models.TaskDetail{
		ID:               task.ID.Hex(),
		Title:            task.Title,
		Description:      task.Description,
		Type:             task.Type,
		Priority:         task.Priority,
		Labels:           task.Labels,
		AssigneeName:     task.AssigneeName,
		AssigneeInitials: task.AssigneeInitials,
		ProjectName:      project.Name,
		ProjectID:        projectID.Hex(),
	}
	if detail.Labels == nil {
		detail.Labels = []string{}
	}
	if task.DueDate != nil {
		detail.DueDate = task.DueDate.Format(utils.DueDateLayout)
	}
	if !task.CreatedAt.IsZero() {
		detail.CreatedAt = task.CreatedAt.Format(utils.DueDateLayout)
	}
	if column, err := h.columnRepo.FindByID(ctx, task.ColumnID); err == nil {
		detail.ColumnName = column.Label
		detail.ColumnColor = column.Color
	}

	c.JSON(http.StatusOK, detail)
}

// MyTasks godoc
// @Summary List the caller's assigned tasks across projects, bucketed by due date
// @Tags tasks
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /tasks/my [get]
func (h *TaskHandler) MyTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	tasks, err := h.taskRepo.ListByAssignee(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	projects := map[primitive.ObjectID]*models.Project{}
	columns := map[primitive.ObjectID]*models.Column{}

	overdue := []models.MyTask{}
	dueSoon := []models.MyTask{}
	later := []models.MyTask{}

	now := time.Now()

	for _, task := range tasks {
		project, cached := projects[task.ProjectID]
		if !cached {
			// Assignments in projects the caller lost access to are hidden.
			project, _ = h.projectRepo.FindAuthorized(ctx, task.ProjectID, userID)
			projects[task.ProjectID] = project
		}
		if project == nil {
			continue
		}

		column, cached := columns[task.ColumnID]
		if !cached {
			column, _ = h.columnRepo.FindByID(ctx, task.ColumnID)
			columns[task.ColumnID] = column
		}

		entry := models.MyTask{
			Task:         task,
			ProjectName:  project.Name,
			ProjectColor: project.Color,
		}
		if column != nil {
			entry.ColumnName = column.Label
		}

		switch dueBucket(task.DueDate, now) {
		case bucketOverdue:
			overdue = append(overdue, entry)
		case bucketDueSoon:
			dueSoon = append(dueSoon, entry)
		default:
			later = append(later, entry)
		}
	}

	sortMyTasks(overdue)
	sortMyTasks(dueSoon)
	sortMyTasks(later)

	c.JSON(http.StatusOK, gin.H{
		"overdue": overdue,
		"dueSoon": dueSoon,
		"later":   later,
		"total":   len(overdue) + len(dueSoon) + len(later),
	})
}

// Search godoc
// @Summary Fuzzy-search task titles within a project
// @Tags tasks
// @Security ApiKeyAuth
// @Produce json
// @Param projectId path string true "Project ID"
// @Param q query string true "Search query"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /projects/{projectId}/tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(c, "projectId")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.projectRepo.FindAuthorized(ctx, projectID, userID); err != nil {
		deniedResponse(c)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"tasks": []models.Task{}})
		return
	}

	tasks, err := h.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tasks"})
		return
	}

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = utils.NormalizeSearch(task.Title)
	}

	matches := fuzzy.Find(utils.NormalizeSearch(query), titles)
	results := make([]models.Task, 0, len(matches))
	for _, m := range matches {
		results = append(results, tasks[m.Index])
	}

	c.JSON(http.StatusOK, gin.H{"tasks": results})
}

const (
	bucketOverdue = "overdue"
	bucketDueSoon = "dueSoon"
	bucketLater   = "later"
)

// dueBucket classifies a due date relative to now: already past, due within
// the next 7 days (boundary inclusive), or anything else including undated.
func dueBucket(due *time.Time, now time.Time) string {
	switch {
	case due == nil:
		return bucketLater
	case due.Before(now):
		return bucketOverdue
	case !due.After(now.AddDate(0, 0, 7)):
		return bucketDueSoon
	default:
		return bucketLater
	}
}

// sortMyTasks orders a bucket by due date ascending; undated tasks sink to
// the end.
func sortMyTasks(tasks []models.MyTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
}

func defaultString(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
