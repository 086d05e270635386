package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guestlist/src-server/form"
	"guestlist/src-server/hashid"
	"guestlist/src-server/identity"
	"guestlist/src-server/model"
	"strings"

	"github.com/uptrace/bun"
)

var (
	ErrResponseCreationFailed = errors.New("rsvp could not be saved")
	ErrInvalidResponse        = fmt.Errorf("%w: response must be yes, maybe or no", form.ErrValidationFailed)
)

// Submission is a guest's raw rsvp as it arrives from the form.
type Submission struct {
	Name     string
	Response string            // yes, maybe or no, any case
	Answers  map[string]string // custom field id -> raw value
}

// Ledger creates and destroys rsvps together with their custom field
// responses, each as one transaction.
type Ledger struct {
	db    *bun.DB
	codec *hashid.Codec
}

func New(db *bun.DB, codec *hashid.Codec) *Ledger {
	return &Ledger{db: db, codec: codec}
}

// Submit validates a submission against the event's fields as stored when the
// transaction starts and persists it. Validation errors match
// form.ErrValidationFailed and leave nothing behind.
func (l *Ledger) Submit(ctx context.Context, event *model.Event, submission Submission) (*model.Rsvp, error) {
	response, ok := model.ParseResponse(submission.Response)
	if !ok {
		return nil, fmt.Errorf("(*Ledger).Submit: %w", ErrInvalidResponse)
	}
	if strings.TrimSpace(submission.Name) == "" {
		return nil, fmt.Errorf("(*Ledger).Submit: %w: name is blank", form.ErrValidationFailed)
	}

	var rsvp *model.Rsvp
	if err := l.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		fields, err := model.ListCustomFields(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		answers, err := form.Validate(fields, submission.Answers)
		if err != nil {
			return err
		}
		rsvp, err = l.create(ctx, tx, event, submission.Name, response, answers)
		return err
	}); err != nil {
		return nil, fmt.Errorf("(*Ledger).Submit: %w", err)
	}
	return rsvp, nil
}

// Create persists an rsvp and one response per answer. Either all rows are
// committed or none are, in which case the error matches
// ErrResponseCreationFailed.
func (l *Ledger) Create(ctx context.Context, event *model.Event, name string, response model.Response, answers []form.Answer) (*model.Rsvp, error) {
	var rsvp *model.Rsvp
	if err := l.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rsvp, err = l.create(ctx, tx, event, name, response, answers)
		return err
	}); err != nil {
		return nil, fmt.Errorf("(*Ledger).Create: %w", err)
	}
	return rsvp, nil
}

func (l *Ledger) create(ctx context.Context, tx bun.Tx, event *model.Event, name string, response model.Response, answers []form.Answer) (*model.Rsvp, error) {
	rsvp := &model.Rsvp{
		EventID:  event.ID,
		Name:     name,
		Response: response,
	}
	if err := rsvp.Insert(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseCreationFailed, err)
	}

	rsvp.CustomFieldResponses = make([]*model.CustomFieldResponse, 0, len(answers))
	for _, answer := range answers {
		if answer.Field == nil {
			return nil, fmt.Errorf("%w: answer without a field", ErrResponseCreationFailed)
		}
		fieldResponse := &model.CustomFieldResponse{
			RsvpID:        rsvp.ID,
			CustomFieldID: answer.Field.ID,
			ResponseValue: answer.Value,
		}
		if err := fieldResponse.Insert(ctx, tx, event.ID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResponseCreationFailed, err)
		}
		rsvp.CustomFieldResponses = append(rsvp.CustomFieldResponses, fieldResponse)
	}

	token, err := l.codec.Encode(rsvp.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseCreationFailed, err)
	}
	rsvp.Token = token
	return rsvp, nil
}

// FindByToken loads the rsvp of event behind token, with its responses.
func (l *Ledger) FindByToken(ctx context.Context, event *model.Event, token string) (*model.Rsvp, error) {
	id, err := l.codec.Decode(token)
	if err != nil {
		return nil, model.ErrNotFound
	}
	rsvp := new(model.Rsvp)
	if err := l.db.NewSelect().
		Model(rsvp).
		Where("id = ?", id).
		Where("event_id = ?", event.ID).
		Relation("CustomFieldResponses").
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("(*Ledger).FindByToken: %w", err)
	}
	rsvp.Token = token
	return rsvp, nil
}

// List returns the event's rsvps in the order they were made.
func (l *Ledger) List(ctx context.Context, event *model.Event) ([]*model.Rsvp, error) {
	rsvps := make([]*model.Rsvp, 0)
	if err := l.db.NewSelect().
		Model(&rsvps).
		Where("event_id = ?", event.ID).
		Relation("CustomFieldResponses").
		Order("created_at ASC", "id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Ledger).List: %w", err)
	}
	for _, rsvp := range rsvps {
		token, err := l.codec.Encode(rsvp.ID)
		if err != nil {
			return nil, fmt.Errorf("(*Ledger).List: %w", err)
		}
		rsvp.Token = token
	}
	return rsvps, nil
}

// Destroy cancels the rsvp behind token if set holds that token for the
// event, and revokes it. Without the token nothing happens and no error is
// returned, so callers cannot probe for valid tokens. Destroying twice is
// fine.
func (l *Ledger) Destroy(ctx context.Context, event *model.Event, token string, set *identity.Set) (bool, error) {
	if !set.Contains(event.Hash, token) {
		return false, nil
	}

	id, err := l.codec.Decode(token)
	if err != nil {
		set.Revoke(event.Hash, token)
		return false, nil
	}

	deleted := false
	if err := l.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		ids := make([]int64, 0, 1)
		if err := tx.NewSelect().
			Model((*model.Rsvp)(nil)).
			Column("id").
			Where("id = ?", id).
			Where("event_id = ?", event.ID).
			Scan(ctx, &ids); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		deleted = true
		return model.DeleteRsvps(ctx, tx, ids...)
	}); err != nil {
		return false, fmt.Errorf("(*Ledger).Destroy: %w", err)
	}

	set.Revoke(event.Hash, token)
	return deleted, nil
}
