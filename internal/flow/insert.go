package flow

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

type (
	// Gateway validates candidate items and appends them to a store. It
	// also tracks the add-item form a user fills in
	Gateway struct {
		store *Store
		mint  IDMinter
		form  FormState
	}

	// FormState is the add-item form as the user currently sees it
	FormState struct {
		Type  api.ItemType `json:"type"`
		Label string       `json:"label"`
		Open  bool         `json:"open"`
	}
)

// DefaultFormType is the type preselected when the form opens
const DefaultFormType = api.ItemInput

// maxMintAttempts bounds retries when a minted ID is already in use
const maxMintAttempts = 8

var (
	ErrLabelRequired   = errors.New("label is required")
	ErrFormClosed      = errors.New("add-item form is not open")
	ErrIDSpaceExceeded = errors.New("could not mint an unused item ID")
	ErrUnknownIDScheme = errors.New("unknown ID scheme")
)

// NewGateway creates an insertion gateway over store
func NewGateway(store *Store, mint IDMinter) *Gateway {
	return &Gateway{
		store: store,
		mint:  mint,
		form:  FormState{Type: DefaultFormType},
	}
}

// Validate checks a candidate before anything is minted. Validation errors
// never mutate the store
func Validate(typ api.ItemType, label string) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: %q", api.ErrInvalidItemType, typ)
	}
	if strings.TrimSpace(label) == "" {
		return ErrLabelRequired
	}
	return nil
}

// IsValidationError reports whether err is a local candidate validation
// failure rather than a store failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrLabelRequired) ||
		errors.Is(err, api.ErrInvalidItemType)
}

// Insert validates a candidate and appends it to the end of the sequence
// under a freshly minted ID
func (g *Gateway) Insert(typ api.ItemType, label string) (api.FlowItem, error) {
	if err := Validate(typ, label); err != nil {
		return api.FlowItem{}, err
	}

	current := g.store.Read()
	id, err := g.mintUnused(current)
	if err != nil {
		return api.FlowItem{}, err
	}

	item := api.FlowItem{ID: id, Type: typ, Label: label}
	if err := g.store.Replace(append(current, item)); err != nil {
		return api.FlowItem{}, err
	}
	g.store.Raise(api.EventTypeItemInserted, api.ItemInsertedEvent{
		FlowID: g.store.FlowID(),
		Item:   item,
	})
	slog.Debug("Item inserted",
		log.FlowID(g.store.FlowID()),
		log.ItemID(item.ID),
		slog.String("item_type", string(item.Type)))
	return item, nil
}

// OpenForm shows the add-item form, keeping any draft in place
func (g *Gateway) OpenForm() {
	g.form.Open = true
}

// CancelForm hides the form without touching the store
func (g *Gateway) CancelForm() {
	g.form.Open = false
}

// SetDraft updates the values typed into the form
func (g *Gateway) SetDraft(typ api.ItemType, label string) {
	g.form.Type = typ
	g.form.Label = label
}

// Form returns the current form state
func (g *Gateway) Form() FormState {
	return g.form
}

// CanSubmit reports whether the form's submit action is enabled
func (g *Gateway) CanSubmit() bool {
	return g.form.Open && strings.TrimSpace(g.form.Label) != ""
}

// Submit inserts the form's draft. On success the label is cleared and the
// form closes; on failure the form stays open with the draft untouched
func (g *Gateway) Submit() (api.FlowItem, error) {
	if !g.form.Open {
		return api.FlowItem{}, ErrFormClosed
	}
	item, err := g.Insert(g.form.Type, g.form.Label)
	if err != nil {
		return api.FlowItem{}, err
	}
	g.form.Label = ""
	g.form.Open = false
	return item, nil
}

func (g *Gateway) mintUnused(items []api.FlowItem) (api.ItemID, error) {
	for range maxMintAttempts {
		id := g.mint.Mint()
		if indexOf(items, id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDSpaceExceeded
}
