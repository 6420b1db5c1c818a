package schema

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/validation"
)

// Option customises Build and the Load helpers.
type Option func(*builder)

type builder struct {
	decorators []model.Decorator
	sanitize   bool
	log        logrus.FieldLogger
}

// WithDecorators runs decorators on the built schema, for example the widget
// registry.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(b *builder) { b.decorators = append(b.decorators, decorators...) }
}

// WithoutSanitizing keeps display strings verbatim.
func WithoutSanitizing() Option {
	return func(b *builder) { b.sanitize = false }
}

// WithLogger routes load diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *builder) {
		if log != nil {
			b.log = log
		}
	}
}

// LoadFS walks fsys and merges every JSON/YAML definition in lexical path
// order. The first non-empty title wins; groups are appended.
func LoadFS(fsys fs.FS) (Document, error) {
	var merged Document
	if fsys == nil {
		return merged, errors.New("schema: filesystem is required")
	}
	var sources []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		if merged.Title == "" {
			merged.Title = doc.Title
		}
		merged.Groups = append(merged.Groups, doc.Groups...)
		sources = append(sources, path)
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	if len(sources) == 0 {
		return Document{}, errors.New("schema: no definition files found")
	}
	merged.Source = strings.Join(sources, ",")
	return merged, nil
}

// Load reads the definitions in fsys and builds the schema.
func Load(fsys fs.FS, opts ...Option) (*model.Schema, error) {
	doc, err := LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts...)
}

// LoadPath loads a single definition file or every definition in a directory.
func LoadPath(path string, opts ...Option) (*model.Schema, error) {
	doc, err := ReadPath(path)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts...)
}

// ReadPath parses a definition file, or merges a directory of them, without
// building the schema.
func ReadPath(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: %w", err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, filepath.Base(path))
}

// Build turns doc into a schema. Every field definition error is reported,
// joined, with the offending key.
func Build(doc Document, opts ...Option) (*model.Schema, error) {
	b := &builder{sanitize: true, log: logger.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	var (
		groups []*model.Group
		errs   []error
	)
	for gi, gdef := range doc.Groups {
		title := b.text(gdef.Title)
		if title == "" {
			errs = append(errs, fmt.Errorf("schema: %s: group %d has no title: %w", doc.Source, gi, model.ErrInvalidDefinition))
			continue
		}
		group, err := model.NewGroup(title, gdef.Columns)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, fdef := range gdef.Fields {
			field, err := b.field(fdef)
			if err != nil {
				errs = append(errs, fmt.Errorf("schema: %s: %w", doc.Source, err))
				continue
			}
			if err := group.Add(field); err != nil {
				errs = append(errs, fmt.Errorf("schema: %s: %w", doc.Source, err))
			}
		}
		groups = append(groups, group)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	schema, err := model.NewSchema(b.text(doc.Title), groups...)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", doc.Source, err)
	}
	if err := schema.Decorate(b.decorators...); err != nil {
		return nil, fmt.Errorf("schema: decorate: %w", err)
	}
	b.log.WithFields(logrus.Fields{
		"source": doc.Source,
		"groups": len(groups),
		"fields": schema.Len(),
	}).Info("schema loaded")
	return schema, nil
}

func (b *builder) field(def FieldDef) (*model.Field, error) {
	kind, err := model.ParseKind(def.Kind)
	if err != nil {
		return nil, &model.FieldError{Key: def.Key, Err: err}
	}

	opts := []model.FieldOption{
		model.WithLabel(b.text(def.Label)),
		model.WithDescription(b.text(def.Description)),
		model.WithTooltip(b.text(def.Tooltip)),
		model.WithPlaceholder(b.text(def.Placeholder)),
		model.WithRequired(def.Required),
	}
	if def.Default != nil {
		opts = append(opts, model.WithDefault(def.Default))
	}
	if len(def.Options) > 0 {
		choices := make([]model.Option, 0, len(def.Options))
		for _, o := range def.Options {
			choices = append(choices, model.NewOption(b.text(o.Label), o.Value))
		}
		opts = append(opts, model.WithChoices(choices...))
	}
	if def.Enabled != nil {
		opts = append(opts, model.WithEnabled(*def.Enabled))
	}
	if def.FileFilter != "" {
		opts = append(opts, model.WithFileFilter(def.FileFilter))
	}
	if def.CheckboxText != "" {
		opts = append(opts, model.WithCheckboxText(b.text(def.CheckboxText)))
	}
	bounds := validation.Bounds{Min: def.Min, Max: def.Max, ExclusiveMin: def.ExclusiveMin, ExclusiveMax: def.ExclusiveMax}
	if !bounds.IsZero() {
		opts = append(opts, model.WithBounds(bounds))
	}
	if def.MinLength != nil || def.MaxLength != nil || def.Pattern != "" {
		rules := validation.TextRules{MinLength: def.MinLength, MaxLength: def.MaxLength}
		if def.Pattern != "" {
			re, err := regexp.Compile(def.Pattern)
			if err != nil {
				return nil, &model.FieldError{Key: def.Key, Err: fmt.Errorf("%w: pattern: %v", model.ErrInvalidDefinition, err)}
			}
			rules.Pattern = re
		}
		opts = append(opts, model.WithTextRules(rules))
	}
	if def.Validator != "" {
		opts = append(opts, model.WithDomainValidator(def.Validator))
	}
	for key, value := range def.Hints {
		opts = append(opts, model.WithHint(key, value))
	}
	return model.NewField(def.Key, kind, opts...)
}

func (b *builder) text(raw string) string {
	if !b.sanitize {
		return strings.TrimSpace(raw)
	}
	return SanitizeText(raw)
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
