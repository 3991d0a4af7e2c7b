package tasks

import (
	"context"

	"github.com/dmitrijs2005/todoauth/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	List(ctx context.Context, limit int) ([]*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}
