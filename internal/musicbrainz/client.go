package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cesargomez89/mdlookup/internal/constants"
	"github.com/cesargomez89/mdlookup/internal/httpclient"
	"github.com/cesargomez89/mdlookup/internal/provider"
	"github.com/cesargomez89/mdlookup/internal/query"
)

const recordingEndpoint = "recording"

// Getter is the transport the client needs. *httpclient.Client implements it.
type Getter interface {
	Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

var _ Getter = (*httpclient.Client)(nil)
var _ provider.Provider[*SearchResponse] = (*Client)(nil)

// Client searches MusicBrainz recordings.
type Client struct {
	transport Getter
	baseURL   string
}

func NewClient(transport Getter, baseURL string) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultMusicBrainzURL
	}
	return &Client{
		transport: transport,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *Client) Name() string {
	return constants.ProviderMusicBrainz
}

// Compile is the package-level Compile; it does not use c.
func (c *Client) Compile(q query.Expr) string {
	return Compile(q)
}

// Run compiles q and searches recordings with it.
func (c *Client) Run(ctx context.Context, q query.Expr) (*SearchResponse, error) {
	return c.SearchRecordings(ctx, Compile(q))
}

// SearchRecordings sends an already compiled query string.
func (c *Client) SearchRecordings(ctx context.Context, compiled string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", compiled)

	body, err := c.transport.Get(ctx, c.baseURL+"/"+recordingEndpoint, params)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			return nil, provider.TransportError(c.Name(), se.StatusCode, err)
		}
		return nil, provider.TransportError(c.Name(), 0, err)
	}

	res, err := decodeSearchResponse(body)
	if err != nil {
		return nil, provider.DecodeError(c.Name(), err)
	}
	return res, nil
}

// topLevelKeys must be present and non-null in every search response.
var topLevelKeys = []string{"created", "count", "offset", "recordings"}

func decodeSearchResponse(body []byte) (*SearchResponse, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: response is null", errSchema)
	}
	for _, key := range topLevelKeys {
		if raw, ok := top[key]; !ok || string(raw) == "null" {
			return nil, fmt.Errorf("%w: %s is missing", errSchema, key)
		}
	}

	var res SearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := res.validate(); err != nil {
		return nil, err
	}
	return &res, nil
}
