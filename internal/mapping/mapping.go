// Package mapping loads the CSV tables that map timeline labels to still
// image paths. Image paths are resolved relative to the mapping file's
// directory so a character's assets can live next to its mapping.
package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lipsync/internal/services"
	"lipsync/internal/timeline"
)

// Table resolves symbolic labels to absolute image paths.
type Table struct {
	path   string
	images map[string]string
}

// Load reads a two-column (label, relative image path) CSV file. Later rows
// win when a label repeats.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "mapping", "open", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	baseDir := filepath.Dir(path)
	images := make(map[string]string)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "mapping", "parse", path, err)
		}
		label := strings.TrimSpace(record[0])
		image := strings.TrimSpace(record[1])
		if label == "" || image == "" {
			return nil, services.Wrap(services.ErrConfiguration, "mapping", "parse",
				fmt.Sprintf("%s: empty label or image path", path), nil)
		}
		images[label] = filepath.Join(baseDir, image)
	}
	if len(images) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "mapping", "parse",
			fmt.Sprintf("%s: no mappings found", path), nil)
	}

	return &Table{path: path, images: images}, nil
}

// Resolve returns the image path for a label. Unknown labels are fatal and
// the error names the offending label.
func (t *Table) Resolve(label string) (string, error) {
	image, ok := t.images[label]
	if !ok {
		return "", services.Wrap(services.ErrMissingLabel, "mapping", "resolve",
			fmt.Sprintf("label %q has no image in %s", label, t.path), nil)
	}
	return image, nil
}

// ResolveAll replaces every interval label with its mapped image path,
// preserving order and durations.
func (t *Table) ResolveAll(intervals []timeline.Interval) ([]timeline.Interval, error) {
	resolved := make([]timeline.Interval, 0, len(intervals))
	for _, interval := range intervals {
		image, err := t.Resolve(interval.Label)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, timeline.Interval{Label: image, Duration: interval.Duration})
	}
	return resolved, nil
}

// Labels returns the mapped labels in no particular order.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.images))
	for label := range t.images {
		labels = append(labels, label)
	}
	return labels
}
