package authsvc_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/repo/user"
)

var ErrRepoError = errors.New("repository error")

// mockUserRepository implements user.Repository for testing.
type mockUserRepository struct {
	users  map[int64]domain.User
	nextID int64
	err    error
	m      sync.Mutex
}

var _ user.Repository = (*mockUserRepository)(nil)

func newMockUserRepo() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[int64]domain.User),
	}
}

func (m *mockUserRepository) setErr(err error) {
	m.m.Lock()
	defer m.m.Unlock()

	m.err = err
}

func (m *mockUserRepository) delete(id int64) {
	m.m.Lock()
	defer m.m.Unlock()

	delete(m.users, id)
}

func (m *mockUserRepository) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return domain.User{}, m.err
	}

	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domain.User{}, domain.ErrUserAlreadyExists
		}
	}

	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = u

	return u, nil
}

func (m *mockUserRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, bool, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return nil, false, m.err
	}

	for _, u := range m.users {
		if u.Email == email {
			return &u, true, nil
		}
	}

	return nil, false, nil
}

func (m *mockUserRepository) GetUserByID(_ context.Context, id int64) (*domain.User, bool, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return nil, false, m.err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, false, nil
	}

	return &u, true, nil
}

func (m *mockUserRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	m.m.Lock()
	defer m.m.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	users := make([]domain.User, 0, len(m.users))
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			users = append(users, u)
		}
	}

	return users, nil
}
