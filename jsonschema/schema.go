package jsonschema

// Draft is the JSON Schema dialect emitted by Generate.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
// It covers the keywords JADN definitions translate to.
type Schema struct {
	// Root
	SchemaURI string             `json:"$schema,omitempty"`
	ID        string             `json:"$id,omitempty"`
	Defs      map[string]*Schema `json:"$defs,omitempty"`

	// Core
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`

	// String / Binary
	MinLength       *int   `json:"minLength,omitempty"`
	MaxLength       *int   `json:"maxLength,omitempty"`
	Pattern         string `json:"pattern,omitempty"`
	ContentEncoding string `json:"contentEncoding,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	PropertyNames        *Schema            `json:"propertyNames,omitempty"`
	MinProperties        *int               `json:"minProperties,omitempty"`
	MaxProperties        *int               `json:"maxProperties,omitempty"`

	// Array
	PrefixItems []*Schema `json:"prefixItems,omitempty"`
	Items       *Schema   `json:"items,omitempty"`
	MinItems    *int      `json:"minItems,omitempty"`
	MaxItems    *int      `json:"maxItems,omitempty"`
	UniqueItems bool      `json:"uniqueItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// stripDescriptions clears every description and title below s.
func (s *Schema) stripDescriptions() {
	if s == nil {
		return
	}
	s.Description = ""
	for _, d := range s.Defs {
		d.stripDescriptions()
	}
	for _, p := range s.Properties {
		p.stripDescriptions()
	}
	for _, p := range s.PrefixItems {
		p.stripDescriptions()
	}
	for _, p := range s.OneOf {
		p.stripDescriptions()
	}
	s.Items.stripDescriptions()
	s.PropertyNames.stripDescriptions()
	if ap, ok := s.AdditionalProperties.(*Schema); ok {
		ap.stripDescriptions()
	}
}
