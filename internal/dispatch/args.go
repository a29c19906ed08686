package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ppiankov/claimcheck/internal/model"
)

const textArgMessage = "Text parameter is required and must be a string"

// argsSchema only constrains text. An unknown or non-string framework is not an
// error; it falls back to the configured default.
const argsSchema = `{
	"type": "object",
	"required": ["text"],
	"properties": {
		"text": {"type": "string"}
	}
}`

const argsSchemaURL = "https://claimcheck.schemas.local/tool-arguments.schema.json"

// request is the validated form of a tool call's arguments
type request struct {
	Text      string
	Framework model.Framework
}

type argValidator struct {
	schema *jsonschema.Schema
}

func newArgValidator() (*argValidator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(argsSchemaURL, strings.NewReader(argsSchema)); err != nil {
		return nil, fmt.Errorf("load argument schema: %w", err)
	}
	compiled, err := c.Compile(argsSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile argument schema: %w", err)
	}
	return &argValidator{schema: compiled}, nil
}

// parse validates args and resolves the framework against fallback. Only the
// text value goes through the schema; other arguments never affect validation and
// a string text is returned byte for byte.
func (v *argValidator) parse(args map[string]any, fallback model.Framework) (request, error) {
	if args == nil {
		return request{}, InvalidArgument(textArgMessage)
	}

	doc := map[string]any{}
	raw, present := args["text"]
	text, isString := raw.(string)
	switch {
	case isString:
		doc["text"] = text
	case present:
		// Go callers may pass ints or structs; check them in the value space the wire produces
		value, err := normalize(raw)
		if err != nil {
			return request{}, InvalidArgument(textArgMessage)
		}
		doc["text"] = value
	}

	if err := v.schema.Validate(doc); err != nil {
		return request{}, InvalidArgument(textArgMessage)
	}

	req := request{
		Text:      text,
		Framework: fallback,
	}
	if name, ok := args["framework"].(string); ok {
		if f, ok := model.ParseFramework(name); ok {
			req.Framework = f
		}
	}

	return req, nil
}

func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
