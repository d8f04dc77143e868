// Package collection holds the state of one rendered collection page: the
// loaded page of stamps, the live text filter, the layout mode and the
// edit and delete dialogs.
package collection

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/internal/stamps"
)

// Mode selects the layout of the visible stamps.
type Mode string

const (
	ModeGrid Mode = "grid"
	ModeList Mode = "list"
)

// ParseMode returns the mode named by s, defaulting to grid.
func ParseMode(s string) Mode {
	if Mode(s) == ModeList {
		return ModeList
	}
	return ModeGrid
}

// Modal is the dialog state of a View.
type Modal string

const (
	ModalIdle          Modal = "idle"
	ModalEditing       Modal = "editing"
	ModalSubmitting    Modal = "submitting"
	ModalConfirmDelete Modal = "confirm-delete"
	ModalDeleting      Modal = "deleting"
	ModalError         Modal = "error"
)

// EditForm is the edit dialog's input. YearIssued is kept as typed so a
// rejected value survives a failed submit.
type EditForm struct {
	ID          uuid.UUID
	Name        string
	Description string
	YearIssued  string
	Country     string
	Image       string
	Upload      *images.Upload
}

// FormFor pre-populates an edit form from st.
func FormFor(st stamps.Stamp) *EditForm {
	return &EditForm{
		ID:          st.ID,
		Name:        st.Name,
		Description: st.Description,
		YearIssued:  strconv.Itoa(st.YearIssued),
		Country:     st.Country,
		Image:       st.Image,
	}
}

// View is the state of one collection page.
type View struct {
	Page       int
	TotalPages int
	Source     []stamps.Stamp
	Query      string
	Visible    []stamps.Stamp
	Mode       Mode
	Modal      Modal
	Form       *EditForm
	DeleteID   uuid.UUID
	Err        error
}

// Filter returns the stamps whose name, year of issue or country contains
// query, ignoring case. An empty query matches everything.
func Filter(source []stamps.Stamp, query string) []stamps.Stamp {
	q := strings.ToLower(query)

	out := make([]stamps.Stamp, 0, len(source))
	for _, st := range source {
		if query == "" || matches(st, q) {
			out = append(out, st)
		}
	}
	return out
}

func matches(st stamps.Stamp, q string) bool {
	return strings.Contains(strings.ToLower(st.Name), q) ||
		strings.Contains(strconv.Itoa(st.YearIssued), q) ||
		strings.Contains(strings.ToLower(st.Country), q)
}

// ViewModel is what a renderer draws. Exactly one of Grid and List is set.
type ViewModel struct {
	Mode  Mode
	Grid  bool
	List  bool
	Query string
	Items []stamps.Stamp
	Empty bool
}

// Render derives the view model from the loaded page, the filter and the
// layout mode. It reads nothing else.
func Render(source []stamps.Stamp, query string, mode Mode) ViewModel {
	items := Filter(source, query)
	mode = ParseMode(string(mode))

	return ViewModel{
		Mode:  mode,
		Grid:  mode == ModeGrid,
		List:  mode == ModeList,
		Query: query,
		Items: items,
		Empty: len(items) == 0,
	}
}
