package rest

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/dmitrijs2005/todoauth/internal/dbx"
	"github.com/dmitrijs2005/todoauth/internal/server/models"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/users"
)

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = "u-" + u.Email
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type memTasks struct {
	items map[string]*models.Task
	calls int
}

func (m *memTasks) Create(ctx context.Context, task *models.Task) error {
	m.calls++
	cp := *task
	m.items[task.ID] = &cp
	return nil
}

func (m *memTasks) List(ctx context.Context, limit int) ([]*models.Task, error) {
	m.calls++
	out := make([]*models.Task, 0, len(m.items))
	for _, t := range m.items {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTasks) GetByID(ctx context.Context, id string) (*models.Task, error) {
	m.calls++
	t, ok := m.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (m *memTasks) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	m.calls++
	if _, ok := m.items[task.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *task
	m.items[task.ID] = &cp
	return &cp, nil
}

func (m *memTasks) Delete(ctx context.Context, id string) error {
	m.calls++
	if _, ok := m.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.items, id)
	return nil
}

type memRepoManager struct {
	users *memUsers
	tasks *memTasks
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users: &memUsers{byEmail: map[string]*models.User{}},
		tasks: &memTasks{items: map[string]*models.Task{}},
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) users.Repository         { return m.users }
func (m *memRepoManager) Tasks(db dbx.DBTX) tasks.Repository         { return m.tasks }

// tickingClock moves one second forward on every read so that each issued
// token expires strictly later than the previous one.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *tickingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
