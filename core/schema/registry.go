package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sendstack/sendxpt/core/errors"
)

// Registry maps domain codes to dataset schemas. Contents are static
// configuration; a registry is constructed once and passed to every
// component that needs it.
type Registry struct {
	schemas map[string]*DatasetSchema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*DatasetSchema)}
}

// Register adds a schema, replacing any previous schema for the same domain.
func (r *Registry) Register(s *DatasetSchema) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.schemas[s.Domain] = s
	return nil
}

// Lookup returns the schema for a domain code. The code is canonicalized to
// uppercase before the lookup.
func (r *Registry) Lookup(domain string) (*DatasetSchema, error) {
	s, ok := r.schemas[strings.ToUpper(strings.TrimSpace(domain))]
	if !ok {
		return nil, errors.NewUnknownDomain(domain)
	}
	return s, nil
}

// Domains returns the registered domain codes in sorted order.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.schemas))
	for d := range r.schemas {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// LoadDir merges JSON schema files from a directory into the registry.
// Each *.json file holds one DatasetSchema; a file's schema replaces any
// built-in schema for the same domain.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.NewIO("read", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.NewIO("read", path, err)
		}
		var s DatasetSchema
		if err := json.Unmarshal(data, &s); err != nil {
			return &errors.ParseError{Format: "schema", Path: path, Message: err.Error(), Err: err}
		}
		if err := r.Register(&s); err != nil {
			return errors.Wrapf(err, "schema file %s", path)
		}
	}
	return nil
}
