package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func init() {
	registerSeeder(&StampSeeder{})
}

type stampSeed struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	YearIssued  int    `json:"yearIssued"`
	Country     string `json:"country"`
}

// StampSeeder adds stamps to collectors identified by email. A stamp whose
// owner already holds one with the same name is skipped.
type StampSeeder struct {
	file string
}

func (s *StampSeeder) Name() string {
	return "stamps"
}

func (s *StampSeeder) Description() string {
	return "Seeds stamps for the demo collectors"
}

func (s *StampSeeder) SetFile(path string) {
	s.file = path
}

func (s *StampSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	content, err := readSeed(s.file, "stamps.json")
	if err != nil {
		return err
	}

	var data struct {
		Stamps []stampSeed `json:"stamps"`
	}
	if err := json.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("parse seed data: %w", err)
	}

	owners := make(map[string]uuid.UUID)

	for _, st := range data.Stamps {
		email := strings.ToLower(strings.TrimSpace(st.Owner))

		owner, ok := owners[email]
		if !ok {
			owner, err = s.ownerID(ctx, tx, email)
			if err != nil {
				return err
			}
			owners[email] = owner
		}

		if err := s.saveStamp(ctx, tx, owner, st); err != nil {
			return fmt.Errorf("save stamp %s: %w", st.Name, err)
		}
	}

	return nil
}

func (s *StampSeeder) ownerID(ctx context.Context, tx *sql.Tx, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("owner %s not found: run the users seeder first", email)
	}
	return id, err
}

func (s *StampSeeder) saveStamp(ctx context.Context, tx *sql.Tx, owner uuid.UUID, st stampSeed) error {
	const query = `
		INSERT INTO stamps (id, owner, name, description, year_issued, country)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE NOT EXISTS (SELECT 1 FROM stamps WHERE owner = $2 AND name = $3)`

	_, err := tx.ExecContext(ctx, query, uuid.New(), owner, st.Name, st.Description, st.YearIssued, st.Country)
	return err
}
