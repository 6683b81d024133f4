package listctl

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/janhq/jan-crm/internal/domain/backend"
	"github.com/janhq/jan-crm/internal/domain/forms"
	"github.com/janhq/jan-crm/internal/domain/notify"
	"github.com/janhq/jan-crm/internal/utils/platformerrors"
)

// Form is an entity draft that can check itself before being sent.
type Form interface {
	Validate(ctx context.Context) error
}

// Repository is the remote table behind a controller.
type Repository[T any, F any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, userID string, form F) error
	Update(ctx context.Context, id string, form F) error
	Delete(ctx context.Context, id string) error
}

// Labels name the entity in notifications.
type Labels struct {
	Singular string
	Plural   string
}

// Title returns the singular noun with a capital first letter.
func (l Labels) Title() string {
	if l.Singular == "" {
		return ""
	}
	return strings.ToUpper(l.Singular[:1]) + l.Singular[1:]
}

// Config wires a Controller.
type Config[T Keyed, F Form] struct {
	Labels  Labels
	Repo    Repository[T, F]
	Auth    backend.Auth
	Sink    notify.Sink
	NewForm func() F
	FormOf  func(T) F
	Log     zerolog.Logger
}

// Controller is a Collection plus the create/edit dialog of one entity.
type Controller[T Keyed, F Form] struct {
	*Collection[T]

	labels  Labels
	repo    Repository[T, F]
	auth    backend.Auth
	sink    notify.Sink
	newForm func() F
	formOf  func(T) F
	log     zerolog.Logger

	mu         sync.Mutex
	form       F
	editingID  string
	dialogOpen bool
}

// New creates a controller in create mode with an empty form.
func New[T Keyed, F Form](cfg Config[T, F]) *Controller[T, F] {
	sink := cfg.Sink
	if sink == nil {
		sink = notify.Discard
	}
	log := cfg.Log.With().Str("component", cfg.Labels.Plural+"-controller").Logger()
	return &Controller[T, F]{
		Collection: NewCollection[T](cfg.Labels.Plural, Lister[T](cfg.Repo.List), sink, log),
		labels:     cfg.Labels,
		repo:       cfg.Repo,
		auth:       cfg.Auth,
		sink:       sink,
		newForm:    cfg.NewForm,
		formOf:     cfg.FormOf,
		log:        log,
		form:       cfg.NewForm(),
	}
}

// State is a snapshot of the dialog.
type State[F any] struct {
	Form       F      `json:"form"`
	EditingID  string `json:"editing_id,omitempty"`
	DialogOpen bool   `json:"dialog_open"`
}

// DialogState returns the current dialog snapshot.
func (c *Controller[T, F]) DialogState() State[F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[F]{Form: c.form, EditingID: c.editingID, DialogOpen: c.dialogOpen}
}

// OpenCreate opens the dialog with an empty draft.
func (c *Controller[T, F]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = c.newForm()
	c.editingID = ""
	c.dialogOpen = true
}

// OpenEdit loads cached item id into the dialog. It reports false when the
// item is not in the cache.
func (c *Controller[T, F]) OpenEdit(id string) bool {
	item, ok := c.Find(id)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = c.formOf(item)
	c.editingID = id
	c.dialogOpen = true
	return true
}

// SetForm replaces the draft.
func (c *Controller[T, F]) SetForm(form F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// Close closes the dialog and resets the draft and the edit selection.
func (c *Controller[T, F]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller[T, F]) resetLocked() {
	c.form = c.newForm()
	c.editingID = ""
	c.dialogOpen = false
}

// BlankForm returns an empty draft without touching the dialog.
func (c *Controller[T, F]) BlankForm() F {
	return c.newForm()
}

// EditForm returns the draft of cached item id without touching the dialog.
func (c *Controller[T, F]) EditForm(id string) (F, bool) {
	item, ok := c.Find(id)
	if !ok {
		var zero F
		return zero, false
	}
	return c.formOf(item), true
}

// Submit creates or updates from the dialog's draft.
func (c *Controller[T, F]) Submit(ctx context.Context) Result {
	c.mu.Lock()
	form, editingID := c.form, c.editingID
	c.mu.Unlock()
	return c.SubmitDraft(ctx, editingID, form)
}

// SubmitDraft creates or updates from form. A non-empty editingID updates that
// row and never inserts; otherwise a row owned by the current user is
// inserted. On success the dialog closes and the collection is re-fetched; on
// failure the dialog stays open holding form and editingID.
func (c *Controller[T, F]) SubmitDraft(ctx context.Context, editingID string, form F) Result {
	if err := form.Validate(ctx); err != nil {
		c.keepDraft(editingID, form)
		c.sink.Notify(ctx, notify.Failure(forms.Message(err)))
		return Invalid
	}

	userID := CurrentUser(ctx, c.auth, c.log)
	if userID == "" {
		return Skipped
	}

	verb, past := "create", "created"
	var err error
	if editingID != "" {
		verb, past = "update", "updated"
		err = c.repo.Update(ctx, editingID, form)
	} else {
		err = c.repo.Create(ctx, userID, form)
	}
	if err != nil {
		platformerrors.LogError(c.log, err)
		c.keepDraft(editingID, form)
		c.sink.Notify(ctx, notify.Failure("Failed to "+verb+" "+c.labels.Singular))
		return Failed
	}

	c.sink.Notify(ctx, notify.Success(c.labels.Title()+" "+past+" successfully"))
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	c.Fetch(ctx)
	return Applied
}

func (c *Controller[T, F]) keepDraft(editingID string, form F) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
	c.editingID = editingID
	c.dialogOpen = true
}

// Delete removes item id and re-fetches.
func (c *Controller[T, F]) Delete(ctx context.Context, id string) Result {
	return c.Run(ctx, func(ctx context.Context) error {
		return c.repo.Delete(ctx, id)
	}, c.labels.Title()+" deleted", "Failed to delete "+c.labels.Singular)
}

// Run performs one remote mutation, notifies ok or fail, and re-fetches on
// success.
func (c *Controller[T, F]) Run(ctx context.Context, mutate func(context.Context) error, ok, fail string) Result {
	if err := mutate(ctx); err != nil {
		platformerrors.LogError(c.log, err)
		c.sink.Notify(ctx, notify.Failure(fail))
		return Failed
	}
	c.sink.Notify(ctx, notify.Success(ok))
	c.Fetch(ctx)
	return Applied
}

// CurrentUser returns the signed-in user's id, or "" when there is none.
// Lookup errors count as signed out.
func CurrentUser(ctx context.Context, auth backend.Auth, log zerolog.Logger) string {
	if auth == nil {
		return ""
	}
	user, err := auth.GetUser(ctx)
	if err != nil {
		platformerrors.LogError(log, err)
		return ""
	}
	if user == nil {
		return ""
	}
	return user.ID
}
