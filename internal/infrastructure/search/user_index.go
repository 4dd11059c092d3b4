// Package search indexes user emails in Elasticsearch for recipient lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/pkg/helpers"
)

const usersMapping = `{
  "mappings": {
    "properties": {
      "email": {"type": "keyword"}
    }
  }
}`

type UserIndex struct {
	ES    *elasticsearch.Client
	Index string
}

// NewUserIndex creates the index when it is missing.
func NewUserIndex(ctx context.Context, es *elasticsearch.Client, index string) (*UserIndex, error) {
	if err := helpers.EnsureIndex(ctx, es, index, usersMapping); err != nil {
		return nil, err
	}
	return &UserIndex{ES: es, Index: index}, nil
}

type userDoc struct {
	Email string `json:"email"`
}

func (x *UserIndex) IndexUser(ctx context.Context, userID, email string) error {
	body, err := json.Marshal(userDoc{Email: email})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: userID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user: %s", res.Status())
	}
	return nil
}

// SearchQuery builds a case-insensitive substring match on email.
func SearchQuery(query string, size int) map[string]any {
	return map[string]any{
		"size":    size,
		"_source": []string{"email"},
		"query": map[string]any{
			"wildcard": map[string]any{
				"email": map[string]any{
					"value":            "*" + escapeWildcard(query) + "*",
					"case_insensitive": true,
				},
			},
		},
	}
}

func escapeWildcard(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)
	return r.Replace(s)
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source userDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (x *UserIndex) SearchEmails(ctx context.Context, query string, size int) ([]string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(SearchQuery(query, size)); err != nil {
		return nil, err
	}
	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search users: %s", res.Status())
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		emails = append(emails, h.Source.Email)
	}
	return emails, nil
}

var _ application.UserIndex = (*UserIndex)(nil)
