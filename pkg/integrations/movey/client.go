package movey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/errors"
	"github.com/movey-network/movey/pkg/integrations"
)

// InfoPath is the registry endpoint that resolves a batch of schemes.
const InfoPath = "/api/v1/packages/info"

var _ deps.Resolver = (*Client)(nil)

// InfoRequest is the body POSTed to [InfoPath].
type InfoRequest struct {
	Schemes []deps.Scheme `json:"schemes"`
}

// Client resolves dependency schemes against a Movey registry.
//
// Every call to [Client.Resolve] makes at most one HTTP request. Any failure
// (transport, status, decoding or correlation) is reported as
// [errors.ErrCodeUnexpected] with the generic user message; the cause stays
// on the error chain and is logged at debug level.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	logger  *log.Logger
}

// NewClient creates a client for the registry at baseURL
// (e.g., "https://www.movey.net"). A nil logger discards log output.
func NewClient(baseURL, version string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	headers := map[string]string{
		"User-Agent": integrations.UserAgent(version),
	}
	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Name returns the resolver identifier accepted in Move.toml.
func (c *Client) Name() string { return deps.ResolverMovey }

// BaseURL returns the registry URL requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Resolve looks up every scheme in one batch request.
//
// The scheme values are deduplicated and sorted before sending; dependency
// names never leave the process. The result is keyed by each record's own
// scheme. An empty input returns an empty result without contacting the
// registry.
func (c *Client) Resolve(ctx context.Context, schemes map[string]deps.Scheme) (deps.Resolved, error) {
	batch := Batch(schemes)
	if len(batch) == 0 {
		return deps.Resolved{}, nil
	}

	url := c.baseURL + InfoPath
	c.logger.Debug("resolving schemes", "url", url, "count", len(batch))

	var raw json.RawMessage
	id, err := c.PostJSON(ctx, url, InfoRequest{Schemes: batch}, &raw)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Unexpected(ctxErr)
		}
		c.logger.Debug("registry request failed", "request_id", id, "err", err)
		return nil, errors.Unexpected(err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		c.logger.Debug("registry response rejected", "request_id", id, "err", err)
		return nil, errors.Unexpected(err)
	}

	resolved, dropped, err := Correlate(batch, records)
	if err != nil {
		c.logger.Debug("registry response rejected", "request_id", id, "err", err)
		return nil, errors.Unexpected(err)
	}
	for _, s := range dropped {
		c.logger.Debug("ignoring unrequested record", "request_id", id, "scheme", s)
	}
	return resolved, nil
}

// Batch returns the distinct scheme values of a collected mapping, sorted by
// their string form. Names are discarded.
func Batch(schemes map[string]deps.Scheme) []deps.Scheme {
	seen := make(map[string]bool, len(schemes))
	out := make([]deps.Scheme, 0, len(schemes))
	for _, s := range schemes {
		key := s.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Correlate pairs registry records with the requested schemes.
//
// Every requested scheme must be matched by exactly one record (see
// [deps.Scheme.Matches]), a record may answer at most one requested scheme,
// and no two records may share a scheme. Records matching nothing are
// returned in dropped, sorted.
func Correlate(requested []deps.Scheme, records []deps.Dependency) (resolved deps.Resolved, dropped []string, err error) {
	resolved = make(deps.Resolved, len(records))
	matchedBy := make(map[string]string, len(requested))

	for _, r := range records {
		if r.Scheme == "" {
			return nil, nil, fmt.Errorf("record %q has no scheme", r.Name)
		}
		if _, dup := resolved[r.Scheme]; dup {
			return nil, nil, fmt.Errorf("duplicate record for scheme %q", r.Scheme)
		}

		var hit string
		for _, s := range requested {
			if !s.Matches(r) {
				continue
			}
			key := s.String()
			if hit != "" {
				return nil, nil, fmt.Errorf("record %q matches both %s and %s", r.Scheme, hit, key)
			}
			if prev, ok := matchedBy[key]; ok {
				return nil, nil, fmt.Errorf("scheme %s matched by records %q and %q", key, prev, r.Scheme)
			}
			matchedBy[key] = r.Scheme
			hit = key
		}
		if hit == "" {
			dropped = append(dropped, r.Scheme)
			continue
		}
		resolved[r.Scheme] = r
	}

	for _, s := range requested {
		if _, ok := matchedBy[s.String()]; !ok {
			return nil, nil, fmt.Errorf("no record for scheme %s", s)
		}
	}
	sort.Strings(dropped)
	return resolved, dropped, nil
}

// decodeRecords accepts a JSON array of records or a JSON object whose
// values are records. Object keys fill in a missing scheme.
func decodeRecords(raw json.RawMessage) ([]deps.Dependency, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch raw[0] {
	case '[':
		var records []deps.Dependency
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return records, nil
	case '{':
		var byScheme map[string]deps.Dependency
		if err := json.Unmarshal(raw, &byScheme); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		keys := make([]string, 0, len(byScheme))
		for k := range byScheme {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		records := make([]deps.Dependency, 0, len(keys))
		for _, k := range keys {
			r := byScheme[k]
			if r.Scheme == "" {
				r.Scheme = k
			}
			records = append(records, r)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unexpected response shape: %.40s", raw)
	}
}
