package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

func CreateSchema(ctx context.Context, db *bun.DB) error {
	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []interface{}{
			(*Event)(nil),
			(*CustomField)(nil),
			(*Rsvp)(nil),
			(*CustomFieldResponse)(nil),
			(*GuestSession)(nil),
		} {
			if _, err := tx.
				NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}

		for _, index := range []struct {
			model   interface{}
			name    string
			columns []string
		}{
			{(*CustomField)(nil), "custom_fields_event_id_position_idx", []string{"event_id", "position"}},
			{(*Rsvp)(nil), "rsvps_event_id_idx", []string{"event_id"}},
			{(*CustomFieldResponse)(nil), "custom_field_responses_custom_field_id_idx", []string{"custom_field_id"}},
		} {
			if _, err := tx.
				NewCreateIndex().
				Model(index.model).
				Index(index.name).
				Column(index.columns...).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("CreateSchema: %w", err)
	}

	return nil
}
