// Package schema validates replacement files against their JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const replacementsURL = "replacements.schema.json"

//go:embed replacements.schema.json
var replacementsSchema []byte

// Violation is one schema failure at a JSON pointer into the document.
type Violation struct {
	// Location is the JSON pointer of the offending value, "" for the root.
	Location string
	Message  string
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func replacements() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(replacementsURL, bytes.NewReader(replacementsSchema)); err != nil {
			compileErr = errors.Wrap(err, "loading replacement schema")
			return
		}
		compiled, compileErr = c.Compile(replacementsURL)
		if compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compiling replacement schema")
		}
	})
	return compiled, compileErr
}

// ValidateReplacements checks a replacement file. It returns the schema
// violations, sorted by location, or an error when data is not JSON.
func ValidateReplacements(data []byte) ([]Violation, error) {
	sch, err := replacements()
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "parsing replacement file")
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}

	violations := leaves(ve, nil)
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Location < violations[j].Location
	})
	return violations, nil
}

// leaves flattens a validation error tree to its most specific causes.
func leaves(ve *jsonschema.ValidationError, out []Violation) []Violation {
	if len(ve.Causes) == 0 {
		return append(out, Violation{Location: ve.InstanceLocation, Message: ve.Message})
	}
	for _, c := range ve.Causes {
		out = leaves(c, out)
	}
	return out
}
