package rcsb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func cannedClient(status int, body string) *Client {
	return NewClient("", &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})})
}

const bestHitJSON = `{
  "query_id": "q",
  "result_type": "polymer_entity",
  "total_count": 2,
  "result_set": [
    {"identifier": "4HHB_1", "score": 1.0,
     "services": [{"service_type": "sequence",
       "nodes": [{"node_id": 0, "original_score": 300,
         "match_context": [{"sequence_identity": 1.0, "evalue": 1.2e-45, "bitscore": 300}]}]}]},
    {"identifier": "1A3N_1", "score": 0.9,
     "services": [{"nodes": [{"match_context": [{"evalue": 3e-10}]}]}]}
  ]
}`

func TestQueryURLSchema(t *testing.T) {
	u, err := QueryURL(DefaultBaseURL, "MKV LLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(u, DefaultBaseURL) {
		t.Fatalf("url does not start with base: %s", u)
	}
	if strings.Contains(u[len(DefaultBaseURL):], " ") {
		t.Fatalf("query part is not escaped: %s", u)
	}
	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("bad url: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(parsed.Query().Get("json")), &doc); err != nil {
		t.Fatalf("json parameter does not decode: %v", err)
	}
	q := doc["query"].(map[string]interface{})
	if q["type"] != "terminal" || q["service"] != "sequence" {
		t.Fatalf("unexpected query node: %v", q)
	}
	p := q["parameters"].(map[string]interface{})
	if p["evalue_cutoff"] != float64(1) || p["identity_cutoff"] != 0.4 ||
		p["target"] != "pdb_protein_sequence" || p["value"] != "MKV LLA" {
		t.Fatalf("unexpected parameters: %v", p)
	}
	if doc["request_options"].(map[string]interface{})["scoring_strategy"] != "sequence" {
		t.Fatalf("unexpected request options: %v", doc["request_options"])
	}
	if doc["return_type"] != "polymer_entity" {
		t.Fatalf("unexpected return type: %v", doc["return_type"])
	}
}

func TestSearchBestHit(t *testing.T) {
	var gotURL *url.URL
	c := NewClient("", &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(bestHitJSON)), Header: make(http.Header)}, nil
	})})
	hit, err := c.Search(context.Background(), "MKVLLA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit.Found || hit.Identifier != "4HHB_1" || hit.EValue.String() != "1.2e-45" {
		t.Fatalf("unexpected hit: %+v", hit)
	}
	if gotURL.Host != "search.rcsb.org" || gotURL.Path != "/rcsbsearch/v1/query" {
		t.Fatalf("unexpected request url: %s", gotURL)
	}
	if !strings.Contains(gotURL.Query().Get("json"), `"value":"MKVLLA"`) {
		t.Fatalf("sequence missing from query: %s", gotURL.Query().Get("json"))
	}
}

func TestSearchFailuresDegrade(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"empty result set", 200, `{"result_set": []}`},
		{"no content", 204, ""},
		{"server error", 500, "boom"},
		{"not json", 200, "<html>oops</html>"},
		{"no services", 200, `{"result_set": [{"identifier": "1ABC_1", "services": []}]}`},
		{"no nodes", 200, `{"result_set": [{"identifier": "1ABC_1", "services": [{"nodes": []}]}]}`},
		{"no match context", 200, `{"result_set": [{"identifier": "1ABC_1", "services": [{"nodes": [{"match_context": []}]}]}]}`},
		{"no evalue", 200, `{"result_set": [{"identifier": "1ABC_1", "services": [{"nodes": [{"match_context": [{}]}]}]}]}`},
		{"no identifier", 200, `{"result_set": [{"services": [{"nodes": [{"match_context": [{"evalue": 1}]}]}]}]}`},
		{"wrong shape", 200, `{"result_set": {"identifier": "1ABC_1"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cannedClient(tc.status, tc.body)
			_, err := c.Search(context.Background(), "MKV")
			var le *LookupError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LookupError, got %v", err)
			}
			if hit := c.Lookup(context.Background(), "MKV"); hit.Found || hit.Identifier != "" || hit.EValue != "" {
				t.Fatalf("expected zero hit, got %+v", hit)
			}
		})
	}
}

func TestSearchEmptyResultSetIsNoHits(t *testing.T) {
	_, err := cannedClient(200, `{"result_set": []}`).Search(context.Background(), "MKV")
	if !errors.Is(err, ErrNoHits) {
		t.Fatalf("expected ErrNoHits, got %v", err)
	}
}

func TestSearchTransportError(t *testing.T) {
	c := NewClient("", &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})})
	if hit := c.Lookup(context.Background(), "MKV"); hit.Found {
		t.Fatalf("expected zero hit on transport error, got %+v", hit)
	}
}

func TestSearchEmptySequence(t *testing.T) {
	c := NewClient("", &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("HTTP should not be called for an empty sequence")
		return nil, nil
	})})
	if _, err := c.Search(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty sequence")
	}
}

func TestSearchKeepsEValueText(t *testing.T) {
	body := `{"result_set": [{"identifier": "1ABC_1", "services": [{"nodes": [{"match_context": [{"evalue": 1.0E-5}]}]}]}]}`
	hit, err := cannedClient(200, body).Search(context.Background(), "MKV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit.EValue.String() != "1.0E-5" {
		t.Fatalf("expected evalue text 1.0E-5, got %q", hit.EValue)
	}
}
