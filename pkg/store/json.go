package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// JSON stores settings in a JSON document. Dotted keys become nested
// objects: "serial.port" is stored as {"serial":{"port":...}}.
type JSON struct {
	path string
	opts fileOptions
}

var _ Store = (*JSON)(nil)

// NewJSON returns a JSON file store.
func NewJSON(path string, opts ...Option) *JSON {
	return &JSON{path: path, opts: newFileOptions(opts)}
}

// Path returns the backing file.
func (s *JSON) Path() string { return s.path }

// Load reads the document. Values that are objects are walked; numbers are
// returned as json.Number with their literal text; arrays are returned as
// decoded Go values.
func (s *JSON) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("store: %s is not valid JSON", s.path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("store: %s must hold a JSON object", s.path)
	}
	values := make(map[string]any)
	walkJSON("", root, values)
	s.opts.log.WithFields(logrus.Fields{"path": s.path, "keys": len(values)}).Info("store: settings loaded")
	return values, nil
}

// Save writes values to the document, replacing its previous content.
func (s *JSON) Save(ctx context.Context, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := []byte("{}")
	var err error
	for _, key := range sortedKeys(values) {
		doc, err = setJSON(doc, escapePath(key), values[key])
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", key, err)
		}
	}
	if err := writeAtomic(s.path, pretty.Pretty(doc)); err != nil {
		return err
	}
	s.opts.log.WithFields(logrus.Fields{"path": s.path, "keys": len(values)}).Info("store: settings saved")
	return nil
}

func walkJSON(prefix string, node gjson.Result, out map[string]any) {
	node.ForEach(func(key, value gjson.Result) bool {
		full := key.String()
		if prefix != "" {
			full = prefix + "." + full
		}
		switch {
		case value.IsObject():
			walkJSON(full, value, out)
		case value.Type == gjson.String:
			out[full] = value.Str
		case value.Type == gjson.Number:
			out[full] = json.Number(value.Raw)
		case value.Type == gjson.True, value.Type == gjson.False:
			out[full] = value.Bool()
		case value.Type == gjson.Null:
		default:
			out[full] = value.Value()
		}
		return true
	})
}

// setJSON writes a json.Number as a raw number literal. Numeric text JSON
// cannot express as a number (hex floats) is kept as a string.
func setJSON(doc []byte, path string, value any) ([]byte, error) {
	n, ok := value.(json.Number)
	if !ok {
		return sjson.SetBytes(doc, path, value)
	}
	text := string(n)
	if gjson.Valid(text) && gjson.Parse(text).Type == gjson.Number {
		return sjson.SetRawBytes(doc, path, []byte(text))
	}
	return sjson.SetBytes(doc, path, text)
}

// escapePath escapes the sjson wildcard characters in key and marks
// all-digit segments as object keys rather than array indexes.
func escapePath(key string) string {
	segments := strings.Split(key, ".")
	for i, segment := range segments {
		var b strings.Builder
		if segment != "" && strings.Trim(segment, "0123456789") == "" {
			b.WriteByte(':')
		}
		for _, r := range segment {
			switch r {
			case '\\', '*', '?':
				b.WriteRune('\\')
			}
			b.WriteRune(r)
		}
		segments[i] = b.String()
	}
	return strings.Join(segments, ".")
}
