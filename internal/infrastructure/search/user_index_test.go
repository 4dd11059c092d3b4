package search

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripper answers every request with a canned body and records the last request.
type roundTripper struct {
	status int
	body   string
	last   *http.Request
	sent   string
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.last = req
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		rt.sent = string(b)
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: rt.status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(rt.body)),
		Request:    req,
	}, nil
}

func newClient(t *testing.T, rt *roundTripper) *elasticsearch.Client {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.local:9200"},
		Transport: rt,
	})
	require.NoError(t, err)
	return es
}

func TestSearchQuery_EscapesWildcards(t *testing.T) {
	q := SearchQuery(`a*b?`, 5)
	assert.Equal(t, 5, q["size"])
	wc := q["query"].(map[string]any)["wildcard"].(map[string]any)["email"].(map[string]any)
	assert.Equal(t, `*a\*b\?*`, wc["value"])
	assert.Equal(t, true, wc["case_insensitive"])
}

func TestSearchEmails(t *testing.T) {
	rt := &roundTripper{status: 200, body: `{"hits":{"hits":[{"_source":{"email":"anna@club.org"}},{"_source":{"email":"annie@club.org"}}]}}`}
	x := &UserIndex{ES: newClient(t, rt), Index: "users"}

	emails, err := x.SearchEmails(context.Background(), "ann", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna@club.org", "annie@club.org"}, emails)
	assert.Equal(t, "/users/_search", rt.last.URL.Path)
	assert.Contains(t, rt.sent, `"*ann*"`)
}

func TestIndexUser(t *testing.T) {
	rt := &roundTripper{status: 201, body: `{"result":"created"}`}
	x := &UserIndex{ES: newClient(t, rt), Index: "users"}

	require.NoError(t, x.IndexUser(context.Background(), "65f1c0ffee0000000000abcd", "a@example.com"))
	assert.Equal(t, "/users/_doc/65f1c0ffee0000000000abcd", rt.last.URL.Path)
	assert.JSONEq(t, `{"email":"a@example.com"}`, rt.sent)

	rt.status, rt.body = 500, `{"error":"boom"}`
	assert.Error(t, x.IndexUser(context.Background(), "id", "a@example.com"))
}
