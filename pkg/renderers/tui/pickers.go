package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-fieldset/pkg/model"
)

// filePicker asks for a path with Tab completion. A blank answer cancels.
type filePicker struct {
	r *Renderer
}

func (p filePicker) PickFile(ctx context.Context, filter string) (string, bool, error) {
	answer, err := p.r.driver.Input(ctx, InputConfig{
		Message:   p.r.message("Choose a file"),
		Help:      fmt.Sprintf("Files matching %s. Leave blank to keep the current value.", filter),
		Suggest:   suggestPaths(filter),
		Validator: validatePath(filter),
	})
	if err != nil {
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false, nil
	}
	return answer, true, nil
}

// colorPicker asks for a hex colour. A blank answer cancels.
type colorPicker struct {
	r *Renderer
}

func (p colorPicker) PickColor(ctx context.Context) (string, bool, error) {
	answer, err := p.r.driver.Input(ctx, InputConfig{
		Message:   p.r.message("Choose a colour"),
		Help:      "Hex colour such as #1e88e5. Leave blank to keep the current value.",
		Validator: validateHex,
	})
	if err != nil {
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false, nil
	}
	hex, err := model.NormalizeHexColor(answer)
	if err != nil {
		return "", false, err
	}
	return hex, true, nil
}

func validateHex(answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	_, err := model.NormalizeHexColor(answer)
	return err
}

// validatePath accepts blank answers, directories for the "*" filter and
// existing files whose base name matches filter.
func validatePath(filter string) func(string) error {
	return func(answer string) error {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return nil
		}
		info, err := os.Stat(answer)
		if err != nil {
			return fmt.Errorf("%s does not exist", answer)
		}
		if info.IsDir() {
			if filter == "*" {
				return nil
			}
			return fmt.Errorf("%s is a directory", answer)
		}
		if !matchesFilter(filter, answer) {
			return fmt.Errorf("%s does not match %s", filepath.Base(answer), filter)
		}
		return nil
	}
}

// suggestPaths completes the typed prefix against the filesystem, keeping
// directories and files that match filter.
func suggestPaths(filter string) func(string) []string {
	return func(toComplete string) []string {
		matches, err := filepath.Glob(toComplete + "*")
		if err != nil {
			return nil
		}
		out := make([]string, 0, len(matches))
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if info.IsDir() {
				out = append(out, match+string(filepath.Separator))
				continue
			}
			if matchesFilter(filter, match) {
				out = append(out, match)
			}
		}
		sort.Strings(out)
		return out
	}
}

// matchesFilter reports whether the base name of path matches one of the
// ';' separated patterns of filter.
func matchesFilter(filter, path string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || filter == "*" {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range strings.Split(filter, ";") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
