package main

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
)

// Valid todo priorities.
var priorities = []string{"low", "medium", "high"}

const maxTitleLength = 200

type user struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Active       bool
	Scopes       []string
}

type todo struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// store is the in-memory backing for the demonstration surface. Every
// miss or conflict surfaces as a catalog failure.
type store struct {
	mu         sync.Mutex
	users      map[int64]*user
	byUsername map[string]*user
	todos      map[int64]*todo
	nextUser   int64
	nextTodo   int64
}

func newStore() *store {
	return &store{
		users:      make(map[int64]*user),
		byUsername: make(map[string]*user),
		todos:      make(map[int64]*todo),
		nextUser:   1,
		nextTodo:   1,
	}
}

func (s *store) createUser(username, email, passwordHash string, scopes []string) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(username)
	if _, ok := s.byUsername[key]; ok {
		return nil, apperr.NewDuplicateUser("username", username)
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return nil, apperr.NewDuplicateUser("email", email)
		}
	}

	u := &user{
		ID:           s.nextUser,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		Scopes:       scopes,
	}
	s.nextUser++
	s.users[u.ID] = u
	s.byUsername[key] = u
	return u, nil
}

func (s *store) userByUsername(username string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byUsername[strings.ToLower(username)]
	return u, ok
}

func (s *store) userByID(id int64) (*user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NewUserNotFound(id, "id")
	}
	return u, nil
}

func (s *store) createTodo(ownerID int64, title, description, priority string) (*todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.NewRequiredFieldMissing("title")
	}
	if len(title) > maxTitleLength {
		return nil, apperr.NewTodoTitleTooLong(len(title), maxTitleLength)
	}
	if priority == "" {
		priority = "medium"
	}
	if !validPriority(priority) {
		return nil, apperr.NewInvalidPriority(priority, priorities)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := &todo{
		ID:          s.nextTodo,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextTodo++
	s.todos[t.ID] = t
	return t, nil
}

// getTodo enforces ownership: another user's todo yields
// TODO_ACCESS_DENIED, a miss yields TODO_NOT_FOUND.
func (s *store) getTodo(id, callerID int64) (*todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getTodoLocked(id, callerID)
}

func (s *store) getTodoLocked(id, callerID int64) (*todo, error) {
	t, ok := s.todos[id]
	if !ok {
		return nil, apperr.NewTodoNotFound(id, callerID)
	}
	if t.OwnerID != callerID {
		return nil, apperr.NewTodoAccessDenied(id, callerID)
	}
	return t, nil
}

func (s *store) listTodos(callerID int64) []*todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*todo, 0)
	for _, t := range s.todos {
		if t.OwnerID == callerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) completeTodo(id, callerID int64) (*todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.getTodoLocked(id, callerID)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return nil, apperr.NewTodoAlreadyCompleted(id)
	}
	t.Completed = true
	return t, nil
}

func (s *store) deleteTodo(id, callerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.getTodoLocked(id, callerID); err != nil {
		return err
	}
	delete(s.todos, id)
	return nil
}

func validPriority(p string) bool {
	for _, v := range priorities {
		if v == p {
			return true
		}
	}
	return false
}
