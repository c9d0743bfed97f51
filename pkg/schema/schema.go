// Package schema validates grid and mind map documents against embedded
// JSON Schemas before they reach the engines.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/matzehuels/meldgrid/pkg/errors"
)

var (
	//go:embed grid.schema.json
	gridSchemaJSON []byte

	//go:embed mindmap.schema.json
	mindmapSchemaJSON []byte
)

// Kind names a document type.
type Kind string

const (
	KindGrid    Kind = "grid"
	KindMindmap Kind = "mindmap"
)

type compiled struct {
	once   sync.Once
	raw    []byte
	schema *gojsonschema.Schema
	err    error
}

func (c *compiled) get() (*gojsonschema.Schema, error) {
	c.once.Do(func() {
		c.schema, c.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(c.raw))
	})
	return c.schema, c.err
}

var schemas = map[Kind]*compiled{
	KindGrid:    {raw: gridSchemaJSON},
	KindMindmap: {raw: mindmapSchemaJSON},
}

// Raw returns the schema source for kind.
func Raw(kind Kind) ([]byte, bool) {
	c, ok := schemas[kind]
	if !ok {
		return nil, false
	}
	return c.raw, true
}

// Validate checks data against the schema for kind. Every violation is
// listed in the returned error's message.
func Validate(kind Kind, data []byte) error {
	c, ok := schemas[kind]
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "no schema for %q", kind)
	}
	s, err := c.get()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile %s schema", kind)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid %s JSON", kind)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return errors.New(errors.ErrCodeInvalidFormat, "%s document does not match schema: %s", kind, strings.Join(msgs, "; "))
}

// ValidateGrid checks a grid layout snapshot.
func ValidateGrid(data []byte) error { return Validate(KindGrid, data) }

// ValidateMindmap checks a mind map document or bare tree.
func ValidateMindmap(data []byte) error { return Validate(KindMindmap, data) }
