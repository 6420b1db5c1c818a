package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-fieldset/pkg/model"
)

// Apply loads st into schema. A store with nothing saved leaves the defaults
// and returns nil. Stored values the schema rejects are reported, joined,
// while every other value is applied.
func Apply(ctx context.Context, st Store, schema *model.Schema) error {
	values, err := st.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return schema.Seed(values)
}

// Persist saves the schema snapshot to st. Number fields are handed over as
// json.Number holding the text as typed, so file stores can write them as
// numbers without losing digits.
func Persist(ctx context.Context, st Store, schema *model.Schema) error {
	values := schema.Snapshot()
	for _, field := range schema.Fields() {
		if field.Kind() != model.KindNumber {
			continue
		}
		raw, ok := values[field.Key()].(string)
		if !ok {
			continue
		}
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("store: %s: %w", field.Key(), err)
		}
		values[field.Key()] = json.Number(raw)
	}
	return st.Save(ctx, values)
}
