package asyncapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ErrNoSchema is returned when an event type has no payload schema
var ErrNoSchema = errors.New("no schema registered for event type")

// EventValidator validates CloudEvent data payloads against the message
// schemas declared in an AsyncAPI document.
type EventValidator struct {
	schemas    map[string]*jsonschema.Schema
	rawSchemas map[string]interface{}
	compiler   *jsonschema.Compiler
}

// AsyncAPISpec represents the relevant parts of an AsyncAPI specification.
type AsyncAPISpec struct {
	AsyncAPI   string                     `yaml:"asyncapi"`
	Info       AsyncAPIInfo               `yaml:"info"`
	Channels   map[string]AsyncAPIChannel `yaml:"channels"`
	Components AsyncAPIComponents         `yaml:"components"`
}

// AsyncAPIInfo contains AsyncAPI info section.
type AsyncAPIInfo struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// AsyncAPIChannel represents a channel in AsyncAPI.
type AsyncAPIChannel struct {
	Address  string                 `yaml:"address"`
	Messages map[string]interface{} `yaml:"messages"`
}

// AsyncAPIMessage is a component message. Name carries the CloudEvent type.
type AsyncAPIMessage struct {
	Name    string            `yaml:"name"`
	Title   string            `yaml:"title"`
	Payload map[string]string `yaml:"payload"`
}

// AsyncAPIComponents contains reusable components.
type AsyncAPIComponents struct {
	Schemas  map[string]interface{}     `yaml:"schemas"`
	Messages map[string]AsyncAPIMessage `yaml:"messages"`
}

// NewEventValidatorFromBytes parses an AsyncAPI document and compiles the
// payload schema of every component message that names an event type.
func NewEventValidatorFromBytes(specBytes []byte) (*EventValidator, error) {
	var spec AsyncAPISpec
	if err := yaml.Unmarshal(specBytes, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse AsyncAPI spec: %w", err)
	}

	v := &EventValidator{
		schemas:    make(map[string]*jsonschema.Schema),
		rawSchemas: make(map[string]interface{}),
		compiler:   jsonschema.NewCompiler(),
	}

	for messageName, message := range spec.Components.Messages {
		if message.Name == "" {
			continue
		}
		ref := message.Payload["$ref"]
		schemaName := strings.TrimPrefix(ref, "#/components/schemas/")
		if schemaName == "" || schemaName == ref {
			return nil, fmt.Errorf("message %s: payload must reference a component schema", messageName)
		}

		raw, ok := spec.Components.Schemas[schemaName]
		if !ok {
			return nil, fmt.Errorf("message %s: schema %s not found", messageName, schemaName)
		}

		schemaJSON, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", schemaName, err)
		}
		if err := v.RegisterSchema(message.Name, schemaJSON); err != nil {
			return nil, fmt.Errorf("schema %s: %w", schemaName, err)
		}
	}

	return v, nil
}

// RegisterSchema adds a JSON schema for an event type.
func (v *EventValidator) RegisterSchema(eventType string, schemaJSON []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	schemaURI := fmt.Sprintf("asyncapi://schemas/%s", eventType)
	if err := v.compiler.AddResource(schemaURI, doc); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := v.compiler.Compile(schemaURI)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	v.schemas[eventType] = compiled
	v.rawSchemas[eventType] = doc
	return nil
}

// ValidateData validates an event payload, given as any JSON encodable value
func (v *EventValidator) ValidateData(eventType string, data interface{}) error {
	schema, ok := v.schemas[eventType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSchema, eventType)
	}
	if data == nil {
		return fmt.Errorf("event data is required")
	}

	// round trip so numbers arrive as json.Number, the way the schema package expects
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(dataJSON))
	if err != nil {
		return fmt.Errorf("failed to unmarshal event data: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("event data validation failed for type %s: %w", eventType, err)
	}
	return nil
}

// GetSupportedEventTypes returns all event types that have registered schemas, sorted.
func (v *EventValidator) GetSupportedEventTypes() []string {
	types := make([]string, 0, len(v.schemas))
	for eventType := range v.schemas {
		types = append(types, eventType)
	}
	sort.Strings(types)
	return types
}

// HasSchema checks if a schema exists for the given event type.
func (v *EventValidator) HasSchema(eventType string) bool {
	_, ok := v.schemas[eventType]
	return ok
}

// GetSchema returns the raw schema for a given event type.
func (v *EventValidator) GetSchema(eventType string) (interface{}, bool) {
	schema, ok := v.rawSchemas[eventType]
	return schema, ok
}
