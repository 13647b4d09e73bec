package rcsb

// Package rcsb queries the RCSB PDB sequence search API for the best
// structural homolog of a protein sequence.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the search endpoint; the encoded query is appended to it.
const DefaultBaseURL = "https://search.rcsb.org/rcsbsearch/v1/query?json="

// DefaultTimeout bounds a single search request.
const DefaultTimeout = 20 * time.Second

// Request is the search document sent to the service.
type Request struct {
	Query          TerminalNode   `json:"query"`
	RequestOptions RequestOptions `json:"request_options"`
	ReturnType     string         `json:"return_type"`
}

type TerminalNode struct {
	Type       string         `json:"type"`
	Service    string         `json:"service"`
	Parameters SequenceParams `json:"parameters"`
}

type SequenceParams struct {
	EvalueCutoff   int     `json:"evalue_cutoff"`
	IdentityCutoff float64 `json:"identity_cutoff"`
	Target         string  `json:"target"`
	Value          string  `json:"value"`
}

type RequestOptions struct {
	ScoringStrategy string `json:"scoring_strategy"`
}

// NewSequenceQuery builds the sequence similarity search for seq. The cutoffs
// and target are the values the service schema expects for PDB protein search.
func NewSequenceQuery(seq string) Request {
	return Request{
		Query: TerminalNode{
			Type:    "terminal",
			Service: "sequence",
			Parameters: SequenceParams{
				EvalueCutoff:   1,
				IdentityCutoff: 0.4,
				Target:         "pdb_protein_sequence",
				Value:          seq,
			},
		},
		RequestOptions: RequestOptions{ScoringStrategy: "sequence"},
		ReturnType:     "polymer_entity",
	}
}

// QueryURL serializes the search for seq and appends it, form-encoded, to base.
func QueryURL(base, seq string) (string, error) {
	b, err := json.Marshal(NewSequenceQuery(seq))
	if err != nil {
		return "", err
	}
	return base + url.QueryEscape(string(b)), nil
}

// Hit is the best match for a query. The zero Hit means no match was found.
type Hit struct {
	Identifier string
	EValue     json.Number
	Found      bool
}

// searchResponse mirrors the subset of the result document we read.
type searchResponse struct {
	ResultSet []struct {
		Identifier string `json:"identifier"`
		Services   []struct {
			Nodes []struct {
				MatchContext []struct {
					Evalue json.Number `json:"evalue"`
				} `json:"match_context"`
			} `json:"nodes"`
		} `json:"services"`
	} `json:"result_set"`
}

// ErrNoHits is returned by Search when the result set is empty.
var ErrNoHits = errors.New("no hits")

// LookupError describes why a search produced no usable hit.
type LookupError struct {
	Sequence string
	Err      error
}

func (e *LookupError) Error() string {
	seq := e.Sequence
	if len(seq) > 20 {
		seq = seq[:20] + "..."
	}
	return fmt.Sprintf("rcsb lookup for %q: %v", seq, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Client talks to the search service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for baseURL (DefaultBaseURL when empty). A nil
// httpClient gets one with DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// Search returns the first entry of the result set. Every failure is reported
// as a *LookupError.
func (c *Client) Search(ctx context.Context, seq string) (Hit, error) {
	if seq == "" {
		return Hit{}, &LookupError{Err: errors.New("empty sequence")}
	}
	hit, err := c.search(ctx, seq)
	if err != nil {
		return Hit{}, &LookupError{Sequence: seq, Err: err}
	}
	return hit, nil
}

// Lookup is Search with failures folded into the zero Hit.
func (c *Client) Lookup(ctx context.Context, seq string) Hit {
	hit, _ := c.Search(ctx, seq)
	return hit
}

func (c *Client) search(ctx context.Context, seq string) (Hit, error) {
	u, err := QueryURL(c.baseURL, seq)
	if err != nil {
		return Hit{}, err
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return Hit{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "geneannot/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Hit{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Hit{}, err
	}
	// the service answers 204 with an empty body when nothing matches
	if resp.StatusCode == http.StatusNoContent {
		return Hit{}, ErrNoHits
	}
	if resp.StatusCode != http.StatusOK {
		return Hit{}, fmt.Errorf("search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return parseResponse(body)
}

func parseResponse(body []byte) (Hit, error) {
	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Hit{}, fmt.Errorf("decode search response: %w", err)
	}
	if len(out.ResultSet) == 0 {
		return Hit{}, ErrNoHits
	}
	best := out.ResultSet[0]
	if best.Identifier == "" {
		return Hit{}, errors.New("best hit has no identifier")
	}
	if len(best.Services) == 0 || len(best.Services[0].Nodes) == 0 || len(best.Services[0].Nodes[0].MatchContext) == 0 {
		return Hit{}, errors.New("best hit has no match context")
	}
	ev := best.Services[0].Nodes[0].MatchContext[0].Evalue
	if ev == "" {
		return Hit{}, errors.New("best hit has no evalue")
	}
	return Hit{Identifier: best.Identifier, EValue: ev, Found: true}, nil
}
