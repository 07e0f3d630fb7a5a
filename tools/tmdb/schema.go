package tmdb

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Structural gates for upstream payloads. Each endpoint response is checked
// against its schema before anything downstream reads it, so shape drift
// surfaces here instead of as nil-map panics in the normalizer.
const (
	moviePageSchema = `{
		"type": "object",
		"required": ["results"],
		"properties": {
			"page": {"type": "integer"},
			"total_results": {"type": "integer"},
			"results": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "title"],
					"properties": {
						"id": {"type": "integer"},
						"title": {"type": "string"},
						"release_date": {"type": "string"},
						"overview": {"type": "string"},
						"vote_average": {"type": "number"},
						"vote_count": {"type": "integer"},
						"popularity": {"type": "number"},
						"poster_path": {"type": ["string", "null"]}
					}
				}
			}
		}
	}`

	personPageSchema = `{
		"type": "object",
		"required": ["results"],
		"properties": {
			"page": {"type": "integer"},
			"total_results": {"type": "integer"},
			"results": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "name"],
					"properties": {
						"id": {"type": "integer"},
						"name": {"type": "string"},
						"known_for_department": {"type": ["string", "null"]},
						"popularity": {"type": "number"},
						"known_for": {"type": "array"}
					}
				}
			}
		}
	}`

	genreListSchema = `{
		"type": "object",
		"required": ["genres"],
		"properties": {
			"genres": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "name"],
					"properties": {
						"id": {"type": "integer"},
						"name": {"type": "string"}
					}
				}
			}
		}
	}`

	certificationListSchema = `{
		"type": "object",
		"required": ["certifications"],
		"properties": {
			"certifications": {
				"type": "object",
				"additionalProperties": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["certification"],
						"properties": {
							"certification": {"type": "string"},
							"meaning": {"type": "string"},
							"order": {"type": "integer"}
						}
					}
				}
			}
		}
	}`
)

// PayloadError reports an upstream response that failed its structural gate.
type PayloadError struct {
	Endpoint Endpoint
	Reasons  []string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid payload from %s: %s", e.Endpoint, strings.Join(e.Reasons, "; "))
}

func payloadSchema(endpoint Endpoint) string {
	switch endpoint {
	case SearchMovieEndpoint, DiscoverMoviesEndpoint:
		return moviePageSchema
	case SearchPersonEndpoint:
		return personPageSchema
	case GenreListEndpoint:
		return genreListSchema
	case MovieCertificationsEndpoint:
		return certificationListSchema
	}
	return ""
}

// ValidatePayload checks a raw endpoint response against the structural gate
// for that endpoint. A schema violation is returned as *PayloadError.
func ValidatePayload(endpoint Endpoint, payload json.RawMessage) error {
	schema := payloadSchema(endpoint)
	if schema == "" {
		return nil
	}
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(string(payload))
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &PayloadError{Endpoint: endpoint, Reasons: []string{err.Error()}}
	}
	if !result.Valid() {
		reasons := make([]string, len(result.Errors()))
		for idx, desc := range result.Errors() {
			reasons[idx] = desc.String()
		}
		return &PayloadError{Endpoint: endpoint, Reasons: reasons}
	}
	return nil
}
