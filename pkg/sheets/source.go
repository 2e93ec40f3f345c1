// Package sheets pulls raw event rows out of the externally edited
// spreadsheet. The sheet is read through its published-CSV export, so no
// Google API credentials are needed; any HTTP-reachable CSV works.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// RowSource provides the raw rows of one sync run. Implementations must
// return rows in source order.
type RowSource interface {
	Rows(ctx context.Context) ([][]string, error)
}

// ErrSourceUnavailable wraps any failure to reach or read the sheet. The sync
// orchestrator treats it as a hard failure so a dead source can never replace
// a previously good batch with an empty one.
var ErrSourceUnavailable = errors.New("sheet source unavailable")

// HTTPSource fetches rows from a CSV document over HTTP.
type HTTPSource struct {
	cfg    Config
	client *http.Client
}

// NewHTTPSource builds an HTTPSource from cfg. The fetch timeout comes from
// cfg and is enforced via the HTTP client, on top of whatever deadline the
// caller's context carries.
func NewHTTPSource(cfg Config) *HTTPSource {
	return &HTTPSource{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.timeout()},
	}
}

func (s *HTTPSource) Rows(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSourceUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	rows := SplitLines(string(body), s.cfg.delimiter())
	if s.cfg.skipHeader() && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}

// StaticSource serves a fixed set of rows. Used in tests and for seeding.
type StaticSource struct {
	Data [][]string
	// Err, when set, is returned instead of rows; lets tests simulate an
	// unreachable sheet.
	Err error
}

func (s *StaticSource) Rows(ctx context.Context) ([][]string, error) {
	if s.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, s.Err)
	}
	return s.Data, nil
}
