// internal/catalog/search.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	commonerrors "construction-engine/internal/common/errors"
	"construction-engine/internal/common/logger"
	"construction-engine/internal/models"
)

const defaultSearchSize = 20

// Search performs free-text provider lookup against the search index. The
// index mirrors the PostgreSQL catalog; the store stays the source of truth.
type Search struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearch(client *elasticsearch.Client, index string, log logger.Logger) *Search {
	return &Search{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-search"}),
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Provider `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchProviders matches query text against provider names, locations,
// technologies and specialties.
func (s *Search) SearchProviders(ctx context.Context, query string, size int) ([]models.Provider, error) {
	if size <= 0 {
		size = defaultSearchSize
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "location", "technologies", "specialties", "projectTypes"},
				"fuzziness": "AUTO",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, commonerrors.NewCatalogQueryFailedError(fmt.Errorf("search error: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError(err)
	}

	providers := make([]models.Provider, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		providers = append(providers, hit.Source)
	}

	s.logger.Debug("provider search completed", map[string]interface{}{
		"query": query,
		"hits":  len(providers),
	})
	return providers, nil
}
