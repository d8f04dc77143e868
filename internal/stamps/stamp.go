package stamps

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/images"
)

// MaxDescriptionLength bounds Stamp.Description in characters.
const MaxDescriptionLength = 125

// Stamp is one catalog entry in a user's collection.
type Stamp struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	YearIssued  int       `json:"yearIssued"`
	Country     string    `json:"country"`
	Image       string    `json:"image"`
	Owner       uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Listing is one page of a user's stamps.
type Listing struct {
	Stamps     []Stamp `json:"stamps"`
	TotalPages int     `json:"totalPages"`
}

// EmptyListing is the result for an owner with no stamps.
func EmptyListing() *Listing {
	return &Listing{Stamps: []Stamp{}}
}

// CreateCommand holds the fields for a new stamp. Owner may be uuid.Nil when
// the request carries a session identity.
type CreateCommand struct {
	Name        string
	Description string
	YearIssued  int
	Country     string
	Owner       uuid.UUID
	Image       *images.Upload
}

// UpdateCommand holds a partial update. Nil fields are left unchanged.
// Upload, when present, replaces the image.
type UpdateCommand struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	YearIssued  *FlexInt       `json:"yearIssued,omitempty"`
	Country     *string        `json:"country,omitempty"`
	Image       *string        `json:"image,omitempty"`
	Upload      *images.Upload `json:"-"`
}

// Apply returns s with the command's fields overlaid.
func (c UpdateCommand) Apply(s Stamp) Stamp {
	if c.Name != nil {
		s.Name = *c.Name
	}
	if c.Description != nil {
		s.Description = *c.Description
	}
	if c.YearIssued != nil {
		s.YearIssued = int(*c.YearIssued)
	}
	if c.Country != nil {
		s.Country = *c.Country
	}
	if c.Image != nil {
		s.Image = *c.Image
	}
	return s
}

// FlexInt decodes from a JSON number or a string holding a base-10 integer.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if s, err := strconv.Unquote(string(data)); err == nil {
		n, err := ParseYear(s)
		if err != nil {
			return err
		}
		*f = FlexInt(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidYear, data)
	}
	*f = FlexInt(n)
	return nil
}

// ParseYear converts form or JSON text into a year.
func ParseYear(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return n, nil
}

func validate(s Stamp) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(s.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}
