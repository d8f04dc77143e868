package users

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/images"
)

// User is a registered collector. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	ProfileImage string    `json:"profileImage"`
	AboutMe      string    `json:"aboutMe"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RegisterCommand struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileCommand changes profile fields. Nil AboutMe is left unchanged;
// Upload, when present, replaces the profile image.
type ProfileCommand struct {
	AboutMe *string
	Upload  *images.Upload
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// NormalizeEmail lower-cases and trims email, then requires a bare address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
