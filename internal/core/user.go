package core

import (
	"context"
	"fmt"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

type UserService struct {
	backend Backend
	store   *store.Store
}

func NewUserService(backend Backend, st *store.Store) *UserService {
	return &UserService{backend: backend, store: st}
}

func (s *UserService) Load(ctx context.Context) error {
	items, err := s.backend.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	return s.store.Dispatch(store.UsersLoaded{Items: items})
}

func (s *UserService) List(ctx context.Context, refresh bool) ([]model.User, error) {
	if refresh || !s.store.Snapshot().HasLoaded(store.TaskUsers) {
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
	}
	return s.store.Snapshot().Users, nil
}

func (s *UserService) Create(ctx context.Context, form request.UserForm) (*model.User, error) {
	payload, err := form.Payload(true)
	if err != nil {
		return nil, err
	}

	key := "user:create:" + payload.Email
	if err := s.store.Begin(key); err != nil {
		return nil, err
	}
	defer s.store.End(key)

	u, err := s.backend.CreateUser(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.store.Dispatch(store.UserSaved{User: *u}); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, form request.UserForm) (*model.User, error) {
	payload, err := form.Payload(false)
	if err != nil {
		return nil, err
	}

	key := "user:update:" + id
	if err := s.store.Begin(key); err != nil {
		return nil, err
	}
	defer s.store.End(key)

	u, err := s.backend.UpdateUser(ctx, model.ID(id), payload)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if err := s.store.Dispatch(store.UserSaved{User: *u}); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	key := "user:delete:" + id
	if err := s.store.Begin(key); err != nil {
		return err
	}
	defer s.store.End(key)

	if err := s.backend.DeleteUser(ctx, model.ID(id)); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return s.store.Dispatch(store.UserDeleted{ID: model.ID(id)})
}

func (s *UserService) Roles(ctx context.Context) ([]model.Role, error) {
	roles, err := s.backend.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// AuthService signs operators in against the backend.
type AuthService struct {
	backend Backend
}

func NewAuthService(backend Backend) *AuthService {
	return &AuthService{backend: backend}
}

func (s *AuthService) Login(ctx context.Context, form request.LoginForm) (*model.Session, error) {
	if form.Email == "" || form.Password == "" {
		return nil, request.Invalid("email", "Email and password are required")
	}
	sess, err := s.backend.Login(ctx, form.Email, form.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return sess, nil
}

func (s *AuthService) Me(ctx context.Context) (*model.User, error) {
	u, err := s.backend.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return u, nil
}
