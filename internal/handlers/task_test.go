package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskboard-be/internal/models"
	"taskboard-be/internal/realtime"
	"taskboard-be/internal/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func dueIn(days int) *time.Time {
	t := time.Now().AddDate(0, 0, days)
	return &t
}

func TestDueBucket(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"undated", nil, bucketLater},
		{"yesterday", at(-24 * time.Hour), bucketOverdue},
		{"tomorrow", at(24 * time.Hour), bucketDueSoon},
		{"exactly seven days out", at(7 * 24 * time.Hour), bucketDueSoon},
		{"past seven days", at(7*24*time.Hour + time.Second), bucketLater},
		{"next month", at(30 * 24 * time.Hour), bucketLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dueBucket(tt.due, now); got != tt.want {
				t.Errorf("dueBucket = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortMyTasks(t *testing.T) {
	tasks := []models.MyTask{
		{Task: models.Task{Title: "c", DueDate: dueIn(3)}},
		{Task: models.Task{Title: "undated"}},
		{Task: models.Task{Title: "a", DueDate: dueIn(1)}},
		{Task: models.Task{Title: "b", DueDate: dueIn(2)}},
	}

	sortMyTasks(tasks)

	want := []string{"a", "b", "c", "undated"}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, tasks[i].Title, title)
		}
	}
}

func TestSortMyTasksStableForUndated(t *testing.T) {
	tasks := []models.MyTask{
		{Task: models.Task{Title: "first"}},
		{Task: models.Task{Title: "second"}},
	}

	sortMyTasks(tasks)

	if tasks[0].Title != "first" || tasks[1].Title != "second" {
		t.Errorf("undated tasks reordered: %q, %q", tasks[0].Title, tasks[1].Title)
	}
}

func TestDefaultString(t *testing.T) {
	tests := []struct {
		input    string
		fallback string
		want     string
	}{
		{"high", "medium", "high"},
		{"", "medium", "medium"},
		{"   ", "medium", "medium"},
		{" bug ", "task", "bug"},
	}

	for _, tt := range tests {
		if got := defaultString(tt.input, tt.fallback); got != tt.want {
			t.Errorf("defaultString(%q, %q) = %q, want %q", tt.input, tt.fallback, got, tt.want)
		}
	}
}

func taskTestContext(method, body string, params gin.Params, userID primitive.ObjectID) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	c.Set("userID", userID.Hex())
	c.Set("userName", "Jane Doe")
	return c, w
}

func TestDeleteBroadcastsWhenCommentCleanupFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("comment cleanup failure", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		projectID := primitive.NewObjectID()
		taskID := primitive.NewObjectID()
		columnID := primitive.NewObjectID()

		// Access gate, task lookup, task delete, then the comment cascade
		// failing. The task is already gone at that point, so the event
		// must still reach the room.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "kanban_app.projects", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: projectID},
				{Key: "userId", Value: userID},
			}),
			mtest.CreateCursorResponse(0, "kanban_app.tasks", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: taskID},
				{Key: "projectId", Value: projectID},
				{Key: "columnId", Value: columnID},
				{Key: "title", Value: "Ship release"},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11600,
				Message: "shutdown in progress",
				Name:    "InterruptedAtShutdown",
			}),
		)

		hub := realtime.NewHub()
		sub := hub.Subscribe(projectID.Hex())
		defer hub.Unsubscribe(sub)

		h := NewTaskHandler(
			repository.NewProjectRepository(mt.DB),
			repository.NewColumnRepository(mt.DB),
			repository.NewTaskRepository(mt.DB),
			repository.NewCommentRepository(mt.DB),
			repository.NewUserRepository(mt.DB),
			hub,
		)

		c, w := taskTestContext(http.MethodDelete, "", gin.Params{
			{Key: "projectId", Value: projectID.Hex()},
			{Key: "taskId", Value: taskID.Hex()},
		}, userID)

		h.Delete(c)

		if w.Code != http.StatusOK {
			mt.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		select {
		case ev := <-sub.Events():
			if ev.Name != "task_deleted" {
				mt.Errorf("event = %q, want %q", ev.Name, "task_deleted")
			}
		default:
			mt.Error("task_deleted was not broadcast after the comment cascade failed")
		}
	})
}

func TestUpdateNoopSkipsBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unmodified update", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		projectID := primitive.NewObjectID()
		taskID := primitive.NewObjectID()
		columnID := primitive.NewObjectID()

		taskDoc := bson.D{
			{Key: "_id", Value: taskID},
			{Key: "projectId", Value: projectID},
			{Key: "columnId", Value: columnID},
			{Key: "title", Value: "Ship release"},
		}

		// Gate, task lookup, column lookup, an update that matches but
		// modifies nothing, then the re-fetch for the response body.
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "kanban_app.projects", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: projectID},
				{Key: "userId", Value: userID},
			}),
			mtest.CreateCursorResponse(0, "kanban_app.tasks", mtest.FirstBatch, taskDoc),
			mtest.CreateCursorResponse(0, "kanban_app.columns", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: columnID},
				{Key: "project", Value: projectID},
				{Key: "label", Value: "To Do"},
				{Key: "order", Value: 0},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 0},
			),
			mtest.CreateCursorResponse(0, "kanban_app.tasks", mtest.FirstBatch, taskDoc),
		)

		hub := realtime.NewHub()
		sub := hub.Subscribe(projectID.Hex())
		defer hub.Unsubscribe(sub)

		h := NewTaskHandler(
			repository.NewProjectRepository(mt.DB),
			repository.NewColumnRepository(mt.DB),
			repository.NewTaskRepository(mt.DB),
			repository.NewCommentRepository(mt.DB),
			repository.NewUserRepository(mt.DB),
			hub,
		)

		body := `{"title":"Ship release","columnId":"` + columnID.Hex() + `"}`
		c, w := taskTestContext(http.MethodPut, body, gin.Params{
			{Key: "projectId", Value: projectID.Hex()},
			{Key: "taskId", Value: taskID.Hex()},
		}, userID)

		h.Update(c)

		if w.Code != http.StatusOK {
			mt.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		select {
		case ev := <-sub.Events():
			mt.Errorf("no-op update broadcast %q", ev.Name)
		default:
		}
	})
}
