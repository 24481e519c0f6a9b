package listing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPageSize = 10
	DefaultDebounce = 500 * time.Millisecond
)

type FilterDefinition struct {
	Key     string   `yaml:"key"`
	Label   string   `yaml:"label"`
	Options []string `yaml:"options"`
}

// Definition is the static configuration of one listing.
type Definition struct {
	Name       string             `yaml:"name"`
	Endpoint   string             `yaml:"endpoint"`
	ItemsKey   string             `yaml:"itemsKey"`
	PageSize   int                `yaml:"pageSize"`
	Debounce   time.Duration      `yaml:"debounce"`
	SortFields []string           `yaml:"sortFields"`
	Filters    []FilterDefinition `yaml:"filters"`
}

type definitionsFile struct {
	Listings []Definition `yaml:"listings"`
}

// ParseDefinitions reads a YAML document with a top-level "listings" sequence.
func ParseDefinitions(data []byte) (map[string]Definition, error) {
	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parse listing definitions")
	}
	defs := make(map[string]Definition, len(file.Listings))
	for _, def := range file.Listings {
		def = def.withDefaults()
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, ok := defs[def.Name]; ok {
			return nil, fmt.Errorf("listing %q defined twice", def.Name)
		}
		defs[def.Name] = def
	}
	return defs, nil
}

func (d Definition) withDefaults() Definition {
	if d.ItemsKey == "" {
		d.ItemsKey = d.Name
	}
	if d.PageSize <= 0 {
		d.PageSize = DefaultPageSize
	}
	if d.Debounce <= 0 {
		d.Debounce = DefaultDebounce
	}
	return d
}

func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("listing name is required")
	}
	if !strings.HasPrefix(d.Endpoint, "/") {
		return fmt.Errorf("listing %q: endpoint must start with /", d.Name)
	}
	seen := map[string]bool{}
	for _, f := range d.Filters {
		if f.Key == "" {
			return fmt.Errorf("listing %q: filter key is required", d.Name)
		}
		if reservedParams[f.Key] {
			return fmt.Errorf("listing %q: filter key %q clashes with a request parameter", d.Name, f.Key)
		}
		if seen[f.Key] {
			return fmt.Errorf("listing %q: filter %q defined twice", d.Name, f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}

func (d Definition) HasFilter(key string) bool {
	_, ok := d.FilterDefinition(key)
	return ok
}

func (d Definition) FilterDefinition(key string) (FilterDefinition, bool) {
	for _, f := range d.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return FilterDefinition{}, false
}

func (d Definition) FilterKeys() []string {
	keys := make([]string, 0, len(d.Filters))
	for _, f := range d.Filters {
		keys = append(keys, f.Key)
	}
	return keys
}

func (d Definition) Sortable(field string) bool {
	return slices.Contains(d.SortFields, field)
}
