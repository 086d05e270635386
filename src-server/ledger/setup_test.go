package ledger_test

import (
	"context"
	"guestlist/src-server/form"
	"guestlist/src-server/hashid"
	"guestlist/src-server/ledger"
	"guestlist/src-server/model"
	"guestlist/src-server/utils"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type fixture struct {
	db     *bun.DB
	codecs *hashid.Codecs
	ledger *ledger.Ledger
	event  *model.Event
}

// newFixture sets up an event with an optional "Allergies" text field and a
// required "Meal" dropdown.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	_, db, err := utils.OpenDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, model.CreateSchema(ctx, db))

	codecs, err := hashid.NewCodecs("ledger test", 6)
	require.NoError(t, err)

	event := &model.Event{Title: "Dinner"}
	require.NoError(t, event.Insert(ctx, db))
	event.Hash, err = codecs.Event.Encode(event.ID)
	require.NoError(t, err)
	_, err = form.CreateFields(ctx, db, event.ID, []form.FieldSpec{
		{FieldName: "Allergies", FieldType: "text"},
		{FieldName: "Meal", FieldType: "dropdown", Required: true, Options: "Veg\nMeat"},
	})
	require.NoError(t, err)
	event.CustomFields, err = model.ListCustomFields(ctx, db, event.ID)
	require.NoError(t, err)

	return &fixture{
		db:     db,
		codecs: codecs,
		ledger: ledger.New(db, codecs.Rsvp),
		event:  event,
	}
}

func (f *fixture) field(name string) *model.CustomField {
	for _, field := range f.event.CustomFields {
		if field.FieldName == name {
			return field
		}
	}
	return nil
}

func (f *fixture) key(name string) string {
	return fieldKey(f.field(name))
}

func (f *fixture) count(t *testing.T, m interface{}) int {
	t.Helper()
	count, err := f.db.NewSelect().Model(m).Count(context.Background())
	require.NoError(t, err)
	return count
}
