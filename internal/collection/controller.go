package collection

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/stamps"
)

// Client is the remote side of a collection page.
type Client interface {
	List(ctx context.Context, owner string, page int) (*stamps.Listing, error)
	Update(ctx context.Context, id uuid.UUID, cmd stamps.UpdateCommand) (*stamps.Stamp, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ticket identifies one page request.
type Ticket struct {
	Seq  uint64
	Page int
}

// Controller owns a View and applies user actions to it. Methods are safe
// for concurrent use; network calls run without the lock held.
type Controller struct {
	mu     sync.Mutex
	client Client
	owner  string
	seq    uint64
	view   View
}

func NewController(client Client, owner string) *Controller {
	return &Controller{
		client: client,
		owner:  owner,
		view: View{
			Page:    1,
			Source:  []stamps.Stamp{},
			Visible: []stamps.Stamp{},
			Mode:    ModeGrid,
			Modal:   ModalIdle,
		},
	}
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.view
	v.Source = slices.Clone(c.view.Source)
	v.Visible = slices.Clone(c.view.Visible)
	if c.view.Form != nil {
		form := *c.view.Form
		v.Form = &form
	}
	return v
}

// Render draws the current state.
func (c *Controller) Render() ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.view.Source, c.view.Query, c.view.Mode)
}

// FetchPage loads page n. A response overtaken by a later fetch is dropped
// and reported as ErrStale.
func (c *Controller) FetchPage(ctx context.Context, n int) error {
	t := c.BeginFetch(n)
	listing, err := c.client.List(ctx, c.owner, t.Page)
	return c.CompleteFetch(t, listing, err)
}

// BeginFetch issues a ticket for page n. Only the newest ticket is accepted
// by CompleteFetch.
func (c *Controller) BeginFetch(n int) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 1 {
		n = 1
	}
	c.seq++
	return Ticket{Seq: c.seq, Page: n}
}

// CompleteFetch applies the outcome of the request identified by t.
func (c *Controller) CompleteFetch(t Ticket, listing *stamps.Listing, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Seq != c.seq {
		return ErrStale
	}

	if err == nil && listing == nil {
		err = fmt.Errorf("empty page response")
	}
	if err != nil {
		c.fail(err)
		return err
	}

	source := listing.Stamps
	if source == nil {
		source = []stamps.Stamp{}
	}

	c.view.Page = t.Page
	c.view.TotalPages = listing.TotalPages
	c.view.Source = source
	c.view.Visible = slices.Clone(source)
	c.view.Query = ""
	return nil
}

// ApplyFilter narrows the visible stamps of the loaded page to query.
func (c *Controller) ApplyFilter(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.Query = query
	c.view.Visible = Filter(c.view.Source, query)
}

func (c *Controller) SetMode(mode Mode) error {
	if mode != ModeGrid && mode != ModeList {
		return ErrInvalidMode
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Mode = mode
	return nil
}

// RequestEdit opens the edit dialog for st.
func (c *Controller) RequestEdit(st stamps.Stamp) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Modal != ModalIdle && c.view.Modal != ModalError {
		return ErrInvalidTransition
	}

	c.view.Form = FormFor(st)
	c.view.Modal = ModalEditing
	c.view.Err = nil
	return nil
}

// SetForm replaces the edit dialog's input.
func (c *Controller) SetForm(form EditForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Modal != ModalEditing || c.view.Form == nil {
		return ErrInvalidTransition
	}
	form.ID = c.view.Form.ID
	c.view.Form = &form
	return nil
}

// SubmitEdit validates the form and sends every field to the API. Without
// a new upload the existing image path is kept.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.view.Modal != ModalEditing || c.view.Form == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}

	form := *c.view.Form
	cmd, err := commandFor(form)
	if err != nil {
		c.fail(err)
		c.mu.Unlock()
		return err
	}
	c.view.Modal = ModalSubmitting
	c.mu.Unlock()

	updated, err := c.client.Update(ctx, form.ID, cmd)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.fail(err)
		return err
	}

	replace(c.view.Source, *updated)
	c.view.Visible = Filter(c.view.Source, c.view.Query)
	c.view.Form = nil
	c.view.Modal = ModalIdle
	c.view.Err = nil
	return nil
}

// CancelEdit closes the edit dialog without saving.
func (c *Controller) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Modal != ModalEditing && c.view.Modal != ModalError {
		return ErrInvalidTransition
	}
	c.reset()
	return nil
}

// RequestDelete asks for confirmation before deleting id.
func (c *Controller) RequestDelete(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Modal != ModalIdle && c.view.Modal != ModalError {
		return ErrInvalidTransition
	}
	c.view.Form = nil
	c.view.Err = nil
	c.view.DeleteID = id
	c.view.Modal = ModalConfirmDelete
	return nil
}

// ConfirmDelete deletes the pending stamp and drops it from both lists.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.view.Modal != ModalConfirmDelete {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	id := c.view.DeleteID
	c.view.Modal = ModalDeleting
	c.mu.Unlock()

	err := c.client.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.fail(err)
		return err
	}

	c.view.Source = remove(c.view.Source, id)
	c.view.Visible = remove(c.view.Visible, id)
	c.reset()
	return nil
}

func (c *Controller) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Modal != ModalConfirmDelete {
		return ErrInvalidTransition
	}
	c.reset()
	return nil
}

// Retry reopens the edit dialog with the form that failed.
func (c *Controller) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Modal != ModalError || c.view.Form == nil {
		return ErrInvalidTransition
	}
	c.view.Modal = ModalEditing
	c.view.Err = nil
	return nil
}

// Dismiss closes the error dialog.
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.view.Modal != ModalError {
		return ErrInvalidTransition
	}
	c.reset()
	return nil
}

// fail must be called with mu held. The form is kept for Retry.
func (c *Controller) fail(err error) {
	c.view.Err = err
	c.view.Modal = ModalError
}

func (c *Controller) reset() {
	c.view.Form = nil
	c.view.DeleteID = uuid.Nil
	c.view.Err = nil
	c.view.Modal = ModalIdle
}

func commandFor(form EditForm) (stamps.UpdateCommand, error) {
	year, err := stamps.ParseYear(form.YearIssued)
	if err != nil {
		return stamps.UpdateCommand{}, err
	}
	if strings.TrimSpace(form.Name) == "" {
		return stamps.UpdateCommand{}, stamps.ErrInvalidName
	}
	if utf8.RuneCountInString(form.Description) > stamps.MaxDescriptionLength {
		return stamps.UpdateCommand{}, stamps.ErrDescriptionTooLong
	}

	y := stamps.FlexInt(year)
	cmd := stamps.UpdateCommand{
		Name:        &form.Name,
		Description: &form.Description,
		YearIssued:  &y,
		Country:     &form.Country,
		Upload:      form.Upload,
	}
	if form.Upload == nil {
		cmd.Image = &form.Image
	}
	return cmd, nil
}

func replace(list []stamps.Stamp, st stamps.Stamp) {
	for i := range list {
		if list[i].ID == st.ID {
			list[i] = st
		}
	}
}

func remove(list []stamps.Stamp, id uuid.UUID) []stamps.Stamp {
	return slices.DeleteFunc(list, func(st stamps.Stamp) bool { return st.ID == id })
}
