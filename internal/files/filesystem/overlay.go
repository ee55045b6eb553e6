package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Overlay stacks providers. Reads go to the first layer that has the file;
// a layer that lacks it is skipped, any other error stops the lookup.
type Overlay struct {
	layers []Provider
}

// NewOverlay creates an overlay; earlier layers take precedence.
func NewOverlay(layers ...Provider) *Overlay {
	return &Overlay{layers: layers}
}

func (o *Overlay) ReadFile(name string) ([]byte, error) {
	for _, l := range o.layers {
		data, err := l.ReadFile(name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("file %s not found in %s: %w", name, o.Describe(), fs.ErrNotExist)
}

func (o *Overlay) Stat(name string) (FileInfo, error) {
	for _, l := range o.layers {
		info, err := l.Stat(name)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("path %s not found in %s: %w", name, o.Describe(), fs.ErrNotExist)
}

// ReadDir merges entries from every layer that has the directory.
// On a name clash the earlier layer's entry wins.
func (o *Overlay) ReadDir(name string) ([]FileInfo, error) {
	seen := map[string]FileInfo{}
	found := false
	for _, l := range o.layers {
		entries, err := l.ReadDir(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		found = true
		for _, e := range entries {
			if _, ok := seen[e.Name()]; !ok {
				seen[e.Name()] = e
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("directory %s not found in %s: %w", name, o.Describe(), fs.ErrNotExist)
	}
	result := make([]FileInfo, 0, len(seen))
	for _, e := range seen {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

// Layer returns the first layer that has name, for diagnostics.
func (o *Overlay) Layer(name string) (Provider, bool) {
	for _, l := range o.layers {
		if _, err := l.Stat(name); err == nil {
			return l, true
		}
	}
	return nil, false
}

func (o *Overlay) Describe() string {
	names := make([]string, len(o.layers))
	for i, l := range o.layers {
		names[i] = l.Describe()
	}
	return strings.Join(names, " > ")
}
