package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/taskmanager/internal/database"
	"github.com/mrlokans/taskmanager/internal/entities"
)

// TasksController handles CRUD for the caller's tasks.
type TasksController struct {
	store TaskStore
}

// NewTasksController creates a new TasksController.
func NewTasksController(store TaskStore) *TasksController {
	return &TasksController{store: store}
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=512"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=512"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// RegisterRoutes registers task routes. The group must be behind the auth middleware.
func (tc *TasksController) RegisterRoutes(router gin.IRoutes) {
	router.POST("/tasks", tc.Create)
	router.GET("/tasks", tc.List)
	router.GET("/tasks/:id", tc.Get)
	router.PATCH("/tasks/:id", tc.Update)
	router.DELETE("/tasks/:id", tc.Delete)
}

// Create handles POST /tasks
func (tc *TasksController) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		respondBadRequest(c, "title is required")
		return
	}

	task := &entities.Task{
		Title:       title,
		Description: req.Description,
		OwnerID:     GetUserID(c),
	}
	if err := tc.store.CreateTask(task); err != nil {
		respondInternalError(c, err, "create task")
		return
	}

	respondCreated(c, task)
}

// List handles GET /tasks
func (tc *TasksController) List(c *gin.Context) {
	tasks, err := tc.store.ListTasksByOwner(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/:id
func (tc *TasksController) Get(c *gin.Context) {
	task, ok := tc.loadOwnedTask(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update handles PATCH /tasks/:id
func (tc *TasksController) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := make(map[string]any)
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			respondBadRequest(c, "title cannot be empty")
			return
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}

	task, ok := tc.loadOwnedTask(c)
	if !ok {
		return
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, task)
		return
	}

	updated, err := tc.store.UpdateTask(task.ID, updates)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "task")
			return
		}
		respondInternalError(c, err, "update task")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /tasks/:id
func (tc *TasksController) Delete(c *gin.Context) {
	task, ok := tc.loadOwnedTask(c)
	if !ok {
		return
	}

	if err := tc.store.DeleteTask(task.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "task")
			return
		}
		respondInternalError(c, err, "delete task")
		return
	}

	respondNoContent(c)
}

// loadOwnedTask resolves :id to a task owned by the caller.
// Tasks owned by someone else are reported as not found.
func (tc *TasksController) loadOwnedTask(c *gin.Context) (*entities.Task, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	task, err := tc.store.GetTaskByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondNotFound(c, "task")
			return nil, false
		}
		respondInternalError(c, err, "get task")
		return nil, false
	}

	if task.OwnerID != GetUserID(c) {
		respondNotFound(c, "task")
		return nil, false
	}
	return task, true
}
