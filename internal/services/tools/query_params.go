package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidParams is returned when activity values do not match the activity schema
var ErrInvalidParams = errors.New("invalid params")

const (
	paramQuery             = "query"
	paramContent           = "content"
	paramMemoryName        = "memory_name"
	paramArtifactNamespace = "artifact_namespace"
)

var validate = validator.New()

// QueryContent is the input text of a query: either LiteralContent or MemoryReference.
// The interface is sealed so callers must pick exactly one shape.
type QueryContent interface {
	isQueryContent()
}

// LiteralContent is text supplied inline by the caller
type LiteralContent struct {
	Text string
}

func (LiteralContent) isQueryContent() {}

// MemoryReference points at artifacts stored in a named memory under a namespace
type MemoryReference struct {
	MemoryName        string `validate:"required"`
	ArtifactNamespace string `validate:"required"`
}

func (MemoryReference) isQueryContent() {}

// QueryParams are the validated values of the query activity
type QueryParams struct {
	Query   string       `validate:"required"`
	Content QueryContent `validate:"required"`
}

// ParseQueryParams validates raw activity values, as decoded from JSON or built by the CLI.
// content must be a string or an object holding exactly memory_name and artifact_namespace.
func ParseQueryParams(values map[string]any) (*QueryParams, error) {
	if values == nil {
		return nil, fmt.Errorf("%w: no values", ErrInvalidParams)
	}

	query, ok := values[paramQuery].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidParams, paramQuery)
	}
	// whitespace-only is rejected but the query is passed on exactly as given
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: %s must not be blank", ErrInvalidParams, paramQuery)
	}

	rawContent, present := values[paramContent]
	if !present {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidParams, paramContent)
	}

	content, err := parseQueryContent(rawContent)
	if err != nil {
		return nil, err
	}

	params := &QueryParams{
		Query:   query,
		Content: content,
	}
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	return params, nil
}

func parseQueryContent(raw any) (QueryContent, error) {
	switch v := raw.(type) {
	case string:
		return LiteralContent{Text: v}, nil
	case map[string]string:
		converted := make(map[string]any, len(v))
		for key, value := range v {
			converted[key] = value
		}
		return parseMemoryReference(converted)
	case map[string]any:
		return parseMemoryReference(v)
	default:
		return nil, fmt.Errorf("%w: %s must be a string or an object with %s and %s",
			ErrInvalidParams, paramContent, paramMemoryName, paramArtifactNamespace)
	}
}

func parseMemoryReference(values map[string]any) (QueryContent, error) {
	var unknown []string
	for key := range values {
		if key != paramMemoryName && key != paramArtifactNamespace {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unexpected %s keys: %s", ErrInvalidParams, paramContent, strings.Join(unknown, ", "))
	}

	memoryName, ok := values[paramMemoryName].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s must be a string", ErrInvalidParams, paramContent, paramMemoryName)
	}
	namespace, ok := values[paramArtifactNamespace].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s must be a string", ErrInvalidParams, paramContent, paramArtifactNamespace)
	}

	ref := MemoryReference{MemoryName: memoryName, ArtifactNamespace: namespace}
	if err := validate.Struct(ref); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return ref, nil
}

// Values renders the params back into activity values
func (p *QueryParams) Values() map[string]any {
	values := map[string]any{paramQuery: p.Query}
	switch c := p.Content.(type) {
	case LiteralContent:
		values[paramContent] = c.Text
	case MemoryReference:
		values[paramContent] = map[string]any{
			paramMemoryName:        c.MemoryName,
			paramArtifactNamespace: c.ArtifactNamespace,
		}
	}
	return values
}
