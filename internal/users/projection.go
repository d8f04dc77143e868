package users

import (
	"github.com/JaimeStill/philatopia/pkg/query"
	"github.com/JaimeStill/philatopia/pkg/repository"
)

var projection = query.NewProjectionMap("public", "users", "u").
	Project("id", "Id").
	Project("email", "Email").
	Project("name", "Name").
	Project("password_hash", "PasswordHash").
	Project("profile_image", "ProfileImage").
	Project("about_me", "AboutMe").
	Project("created_at", "CreatedAt")

const returning = `RETURNING id, email, name, password_hash, profile_image, about_me, created_at`

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.ProfileImage,
		&u.AboutMe,
		&u.CreatedAt,
	)
	return u, err
}
