package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/internal/models"
	"github.com/alfgow/inmobiliaria-server/internal/normalize"
)

// rawPropertySchema is deliberately permissive: raw records guarantee almost
// nothing, but a record that is not even an object (or whose image list is not
// a list) is rejected at the boundary instead of trusted downstream.
const rawPropertySchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"images": {"type": ["array", "null"]},
		"imagenes": {"type": ["array", "null"]},
		"status": {"type": ["object", "null"]},
		"estatus": {"type": ["object", "null"]}
	}
}`

func mustCompileRawPropertySchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("raw-property.json", strings.NewReader(rawPropertySchema)); err != nil {
		panic(fmt.Sprintf("failed to add raw property schema: %v", err))
	}
	return compiler.MustCompile("raw-property.json")
}

// APISource pulls raw records from the remote listings REST API. It
// understands both the current {data: [...]} envelope and the older variant
// that shipped meta/filters alongside data.
type APISource struct {
	baseURL string
	apiKey  string
	client  *http.Client
	schema  *jsonschema.Schema
	logger  *logrus.Logger
}

func NewAPISource(baseURL, apiKey string, logger *logrus.Logger) *APISource {
	if logger == nil {
		logger = logrus.New()
	}
	return &APISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		schema:  mustCompileRawPropertySchema(),
		logger:  logger,
	}
}

type listEnvelope struct {
	Data  []json.RawMessage `json:"data"`
	Error string            `json:"error"`
}

type detailEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (s *APISource) ListProperties(ctx context.Context, opts ListOptions) ([]models.RawProperty, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(opts.effectiveLimit()))
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}

	body, status, err := s.get(ctx, "/properties?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("listing request returned status %d", status)
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse listing envelope: %v", err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("listing request failed: %s", envelope.Error)
	}

	raws := make([]models.RawProperty, 0, len(envelope.Data))
	for _, message := range envelope.Data {
		raw, ok := s.decodeRecord(message)
		if !ok {
			continue
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// GetBySlug tries the direct slug lookup first; backends that predate that
// route answer 404/405 and get the search fallback: fetch candidates and pick
// an exact slug match, else the first result.
func (s *APISource) GetBySlug(ctx context.Context, slug string) (models.RawProperty, error) {
	body, status, err := s.get(ctx, "/properties/slug/"+url.PathEscape(slug))
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var envelope detailEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse property envelope: %v", err)
		}
		if len(envelope.Data) == 0 {
			return nil, nil
		}
		raw, ok := s.decodeRecord(envelope.Data)
		if !ok {
			return nil, nil
		}
		return raw, nil
	case http.StatusNotFound:
		// A missing route and a missing property both answer 404; the
		// search fallback handles either case.
		return s.searchBySlug(ctx, slug)
	case http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return s.searchBySlug(ctx, slug)
	default:
		return nil, fmt.Errorf("property request returned status %d", status)
	}
}

func (s *APISource) searchBySlug(ctx context.Context, slug string) (models.RawProperty, error) {
	candidates, err := s.ListProperties(ctx, ListOptions{Query: strings.ReplaceAll(slug, "-", " ")})
	if err != nil {
		return nil, err
	}

	var first models.RawProperty
	for _, candidate := range candidates {
		if first == nil {
			first = candidate
		}
		if candidateSlug(candidate) == slug {
			return candidate, nil
		}
	}
	return first, nil
}

func candidateSlug(raw models.RawProperty) string {
	if slug, ok := raw["slug"].(string); ok && strings.TrimSpace(slug) != "" {
		return strings.TrimSpace(slug)
	}
	for _, key := range []string{"title", "titulo"} {
		if title, ok := raw[key].(string); ok {
			if derived := normalize.Slugify(title); derived != "" {
				return derived
			}
		}
	}
	return ""
}

func (s *APISource) decodeRecord(message json.RawMessage) (models.RawProperty, bool) {
	var value interface{}
	if err := json.Unmarshal(message, &value); err != nil {
		s.logger.WithError(err).Warn("Dropping undecodable property record")
		return nil, false
	}

	if err := s.schema.Validate(value); err != nil {
		s.logger.WithError(err).Warn("Dropping property record that failed schema validation")
		return nil, false
	}

	raw, ok := value.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return models.RawProperty(raw), true
}

func (s *APISource) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %v", err)
	}
	return body, resp.StatusCode, nil
}
