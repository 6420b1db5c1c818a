package store_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/store"
	"github.com/goliatone/go-fieldset/pkg/testsupport"
)

func sampleValues() map[string]any {
	return map[string]any{
		"serial.port":       "COM2",
		"serial.baud":       int64(9600),
		"weighing.tare":     12.5,
		"printing.auto":     true,
		"company.name":      "Acme Scales",
		"appearance.accent": "#1e88e5",
	}
}

func TestFileStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, format := range []string{store.FormatJSON, store.FormatTOML} {
		format := format
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, format, "settings."+format)
			st, err := store.Open(path, "")
			require.NoError(t, err)

			_, err = st.Load(ctx)
			require.ErrorIs(t, err, store.ErrNotFound)

			require.NoError(t, st.Save(ctx, sampleValues()))

			got, err := st.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "COM2", got["serial.port"])
			assert.Equal(t, true, got["printing.auto"])
			assert.Equal(t, "Acme Scales", got["company.name"])
			assert.Equal(t, json.Number("9600"), got["serial.baud"])
			assert.Equal(t, json.Number("12.5"), got["weighing.tare"])
			assert.Len(t, got, len(sampleValues()))

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp files must not be left behind")
		})
	}
}

func TestJSONStoreNestsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	st := store.NewJSON(path)
	require.NoError(t, st.Save(context.Background(), map[string]any{
		"serial.port": "COM1",
		"printing.1":  "copy",
		"odd*key":     "x",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"serial": {`)
	assert.Contains(t, string(data), `"1": "copy"`)

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"serial.port": "COM1", "printing.1": "copy", "odd*key": "x"}, got)
}

func TestJSONStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := store.NewJSON(path).Load(context.Background())
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`["a"]`), 0o644))
	_, err = store.NewJSON(path).Load(context.Background())
	require.Error(t, err)
}

func TestOpenFormats(t *testing.T) {
	st, err := store.Open("settings.toml", "")
	require.NoError(t, err)
	assert.IsType(t, &store.TOML{}, st)

	st, err = store.Open("settings.conf", "")
	require.NoError(t, err)
	assert.IsType(t, &store.JSON{}, st)

	_, err = store.Open("settings.ini", "ini")
	require.Error(t, err)
	_, err = store.Open(" ", "json")
	require.Error(t, err)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mem := store.NewMemory()
	require.ErrorIs(t, mem.Save(ctx, sampleValues()), context.Canceled)
	_, err := store.NewJSON(filepath.Join(t.TempDir(), "x.json")).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func weighingSchema(t *testing.T) *model.Schema {
	t.Helper()
	group, err := model.NewGroup("Weighing", 1,
		model.MustField("weighing.unit", model.KindDropdown, model.WithChoices(
			model.NewOption("Kilograms", "kg"),
			model.NewOption("Tonnes", "t"),
		)),
		model.MustField("weighing.max", model.KindNumber, model.WithDefault(60000)),
		model.MustField("weighing.auto", model.KindCheckbox),
	)
	require.NoError(t, err)
	schema, err := model.NewSchema("Settings", group)
	require.NoError(t, err)
	return schema
}

func TestApplyAndPersist(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	schema := weighingSchema(t)

	require.NoError(t, store.Apply(ctx, mem, schema), "empty store keeps defaults")
	assert.Equal(t, "60000", schema.Snapshot()["weighing.max"])

	unit, _ := schema.Field("weighing.unit")
	require.NoError(t, unit.SetValue("t"))
	require.NoError(t, store.Persist(ctx, mem, schema))
	assert.Equal(t, 1, mem.Saves())

	saved, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, json.Number("60000"), saved["weighing.max"])
	assert.Equal(t, "t", saved["weighing.unit"])

	fresh := weighingSchema(t)
	saved["weighing.unit"] = "lb"
	saved["legacy.key"] = "ignored"
	require.NoError(t, mem.Save(ctx, saved))

	err = store.Apply(ctx, mem, fresh)
	require.ErrorIs(t, err, model.ErrInvalidFieldValue)
	assert.Equal(t, "kg", fresh.Snapshot()["weighing.unit"], "rejected value keeps default")
	assert.Equal(t, "60000", fresh.Snapshot()["weighing.max"])
}

func TestPersistThenApplyRestoresSnapshot(t *testing.T) {
	ctx := testsupport.Context()
	fixture := filepath.Join("..", "schema", "testdata", "scale.json")

	cases := []struct {
		name string
		baud string
	}{
		{name: "plain", baud: "19200"},
		{name: "beyond float64", baud: "12345678901234567890"},
		{name: "trailing zero", baud: "0.10"},
		{name: "exponent", baud: "1e3"},
		{name: "negative fraction", baud: "-2.50"},
	}
	for _, format := range []string{store.FormatJSON, store.FormatTOML} {
		for _, tc := range cases {
			format, tc := format, tc
			t.Run(format+"/"+tc.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "scale."+format)

				edited := testsupport.LoadSchema(t, fixture)
				testsupport.MustSeed(t, edited, map[string]any{"serial.port": "COM2", "serial.baud": tc.baud})
				st, err := store.Open(path, "")
				require.NoError(t, err)
				require.NoError(t, store.Persist(ctx, st, edited))

				restored := testsupport.LoadSchema(t, fixture)
				require.NoError(t, store.Apply(ctx, st, restored))

				want := map[string]any{"serial.port": "COM2", "serial.baud": tc.baud}
				assert.Empty(t, testsupport.CompareSnapshot(want, restored))
			})
		}
	}
}

func TestJSONStoreWritesNumbersVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	st := store.NewJSON(path)
	require.NoError(t, st.Save(context.Background(), map[string]any{
		"big":  json.Number("12345678901234567890"),
		"tare": json.Number("0.10"),
		"hex":  json.Number("0x1p4"),
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"big": 12345678901234567890`)
	assert.Contains(t, string(data), `"tare": 0.10`)
	assert.Contains(t, string(data), `"hex": "0x1p4"`)

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), got["big"])
	assert.Equal(t, json.Number("0.10"), got["tare"])
	assert.Equal(t, "0x1p4", got["hex"])
}

func TestTOMLStoreKeepsNumberText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	st := store.NewTOML(path)
	require.NoError(t, st.Save(context.Background(), map[string]any{
		"serial.baud":   json.Number("9600"),
		"weighing.tare": json.Number("12.5"),
		"weighing.max":  json.Number("12345678901234567890"),
		"weighing.step": json.Number("0.10"),
	}))

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, json.Number("9600"), got["serial.baud"])
	assert.Equal(t, json.Number("12.5"), got["weighing.tare"])
	assert.Equal(t, "12345678901234567890", got["weighing.max"])
	assert.Equal(t, "0.10", got["weighing.step"])
}
