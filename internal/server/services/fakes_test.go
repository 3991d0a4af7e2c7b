package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/dmitrijs2005/todoauth/internal/dbx"
	"github.com/dmitrijs2005/todoauth/internal/server/models"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byEmail     map[string]*models.User
	getErr      error
	createErr   error
	createCalls int
}

func newFakeUsersRepo(existing ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byEmail: map[string]*models.User{}}
	for _, u := range existing {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-" + u.Email
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeTasksRepo struct {
	items     map[string]*models.Task
	err       error
	lastLimit int
	listNil   bool
}

func newFakeTasksRepo() *fakeTasksRepo {
	return &fakeTasksRepo{items: map[string]*models.Task{}}
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) error {
	if f.err != nil {
		return f.err
	}
	cp := *task
	f.items[task.ID] = &cp
	return nil
}

func (f *fakeTasksRepo) List(ctx context.Context, limit int) ([]*models.Task, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if f.listNil {
		return nil, nil
	}
	out := make([]*models.Task, 0, len(f.items))
	for _, t := range f.items {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTasksRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.items[task.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *task
	f.items[task.ID] = &cp
	return &cp, nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository         { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository         { return m.t }

// fakeHasher skips bcrypt's work factor.
type fakeHasher struct {
	verifyCalls int
}

func (h *fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (h *fakeHasher) Verify(password, hash string) bool {
	h.verifyCalls++
	return strings.TrimPrefix(hash, "hashed:") == password && strings.HasPrefix(hash, "hashed:")
}
