package seeder

import (
	"fmt"
	"log"

	"docmanager/internal/app"
	"docmanager/internal/model"
	"docmanager/internal/pkg/passhash"
)

type seedUser struct {
	email    string
	password string
	role     model.Role
}

var defaultUsers = []seedUser{
	{email: "admin@example.com", password: "admin123", role: model.RoleAdmin},
	{email: "editor@example.com", password: "editor123", role: model.RoleEditor},
	{email: "viewer@example.com", password: "viewer123", role: model.RoleViewer},
}

// Seeder provisions one account per role so a fresh deployment is usable
// without a manual registration step. Existing emails are left alone.
type Seeder struct {
	users app.UserStore
}

func New(users app.UserStore) *Seeder {
	return &Seeder{users: users}
}

func (s *Seeder) Seed() error {
	for _, su := range defaultUsers {
		existing, err := s.users.GetByEmail(su.email)
		if err != nil {
			return fmt.Errorf("seed lookup %s failed: %w", su.email, err)
		}
		if existing != nil {
			continue
		}

		hash, err := passhash.Hash(su.password)
		if err != nil {
			return fmt.Errorf("seed hash for %s failed: %w", su.email, err)
		}
		user := &model.User{
			Email:        su.email,
			PasswordHash: hash,
			Role:         su.role,
		}
		if err := s.users.Create(user); err != nil {
			return fmt.Errorf("seed create %s failed: %w", su.email, err)
		}
		log.Printf("seeded %s user %s", su.role, su.email)
	}
	return nil
}
