package model_test

import (
	"context"
	"guestlist/src-server/model"
	"guestlist/src-server/utils"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	_, bundb, err := utils.OpenDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bundb.Close() })
	if err := model.CreateSchema(context.Background(), bundb); err != nil {
		t.Fatal(err)
	}
	return bundb
}

func newTestEvent(t *testing.T, db bun.IDB, fields ...*model.CustomField) *model.Event {
	t.Helper()
	ctx := context.Background()
	event := &model.Event{Title: "Summer picnic"}
	if err := event.Insert(ctx, db); err != nil {
		t.Fatal(err)
	}
	if err := model.CreateCustomFields(ctx, db, event.ID, fields); err != nil {
		t.Fatal(err)
	}
	event.CustomFields = fields
	return event
}
