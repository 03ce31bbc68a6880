package app

import "docmanager/internal/model"

// UserService covers admin-facing user management. Account creation goes
// through AuthService.Register so hashing rules live in one place.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List() ([]model.User, error) {
	return s.users.List()
}

func (s *UserService) Get(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) UpdateRole(id uint, role model.Role) (*model.User, error) {
	if id == 0 || !role.Valid() {
		return nil, ErrInvalidInput
	}
	user, err := s.users.UpdateRole(id, role)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}
