package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/dmitrijs2005/todoauth/internal/server/models"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskService manages todo records. Ids are UUIDs; a malformed id is
// treated as a record that does not exist.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService returns a TaskService storing tasks through m.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

func (s *TaskService) Create(ctx context.Context, body models.TaskBody) (*models.Task, error) {
	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       body.Title,
		Description: body.Description,
	}

	if err := s.repomanager.Tasks(s.db).Create(ctx, task); err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// List returns up to common.MaxTaskPageSize tasks. No tasks is an empty
// slice and a nil error.
func (s *TaskService) List(ctx context.Context) ([]*models.Task, error) {
	items, err := s.repomanager.Tasks(s.db).List(ctx, common.MaxTaskPageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	if items == nil {
		items = []*models.Task{}
	}
	return items, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrRecordNotFound
	}

	task, err := s.repomanager.Tasks(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "error reading task")
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, body models.TaskBody) (*models.Task, error) {
	if !validID(id) {
		return nil, common.ErrRecordNotFound
	}

	task, err := s.repomanager.Tasks(s.db).Update(ctx, &models.Task{
		ID:          id,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		return nil, mapNotFound(err, "error updating task")
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrRecordNotFound
	}

	if err := s.repomanager.Tasks(s.db).Delete(ctx, id); err != nil {
		return mapNotFound(err, "error deleting task")
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func mapNotFound(err error, msg string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrRecordNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
