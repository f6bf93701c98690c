package http

import (
	"context"

	"github.com/mrlokans/taskmanager/internal/auth"
	"github.com/mrlokans/taskmanager/internal/database"
	"github.com/mrlokans/taskmanager/internal/database/tasks"
	"github.com/mrlokans/taskmanager/internal/entities"
)

var (
	_ TaskStore      = (*tasks.Repository)(nil)
	_ ProfileService = (*auth.Service)(nil)
	_ HealthChecker  = (*database.Database)(nil)
	_ HealthChecker  = (*auth.RedisDenylist)(nil)
)

// This file consolidates the store and service interfaces used by HTTP controllers.
// Each controller depends only on the operations it calls.

// TaskStore provides task persistence for TasksController.
// Implemented by tasks.Repository.
type TaskStore interface {
	CreateTask(task *entities.Task) error
	ListTasksByOwner(ownerID uint) ([]entities.Task, error)
	GetTaskByID(id uint) (*entities.Task, error)
	UpdateTask(id uint, updates map[string]any) (*entities.Task, error)
	DeleteTask(id uint) error
}

// ProfileService provides account operations for ProfileController.
// Implemented by auth.Service.
type ProfileService interface {
	GetProfile(ctx context.Context, subjectID string) (*entities.User, error)
	UpdateProfile(ctx context.Context, subjectID string, update auth.ProfileUpdate) (*entities.User, error)
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
