package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/users"
)

func init() {
	registerSeeder(&UserSeeder{})
}

type userSeed struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	AboutMe  string `json:"aboutMe"`
}

// UserSeeder creates demo collectors. Existing emails are left untouched.
type UserSeeder struct {
	file string
}

func (s *UserSeeder) Name() string {
	return "users"
}

func (s *UserSeeder) Description() string {
	return "Seeds demo collectors with hashed passwords"
}

func (s *UserSeeder) SetFile(path string) {
	s.file = path
}

func (s *UserSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	content, err := readSeed(s.file, "users.json")
	if err != nil {
		return err
	}

	var data struct {
		Users []userSeed `json:"users"`
	}
	if err := json.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	const query = `
		INSERT INTO users (id, email, name, password_hash, about_me)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`

	for _, u := range data.Users {
		email, err := users.NormalizeEmail(u.Email)
		if err != nil {
			return fmt.Errorf("user %q: %w", u.Email, err)
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}

		if _, err := tx.ExecContext(ctx, query, uuid.New(), email, u.Name, hash, u.AboutMe); err != nil {
			return fmt.Errorf("save user %s: %w", email, err)
		}
	}

	return nil
}
