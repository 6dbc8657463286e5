package horizons

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/loader"
)

const (
	DefaultBaseURL     = "https://ssd.jpl.nasa.gov/horizons_batch.cgi"
	DefaultConcurrency = 4
	DefaultStartTime   = "2016-01-01"
	DefaultStopTime    = "2016-01-02"
	// DefaultMaxID is the last id swept by a full download.
	DefaultMaxID = 1000
)

// Client fetches body states from Horizons.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Concurrency int
	Logger      *slog.Logger
	StartTime   string
	StopTime    string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithConcurrency(n int) Option {
	return func(c *Client) { c.Concurrency = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// WithEpoch sets the start and stop dates of the ephemeris query.
func WithEpoch(start, stop string) Option {
	return func(c *Client) {
		c.StartTime = start
		c.StopTime = stop
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL:     DefaultBaseURL,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Concurrency: DefaultConcurrency,
		Logger:      slog.New(slog.DiscardHandler),
		StartTime:   DefaultStartTime,
		StopTime:    DefaultStopTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	return c
}

// IDs returns the inclusive range [from, to].
func IDs(from, to int) []int {
	if to < from {
		return nil
	}
	ids := make([]int, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

// URL builds the batch query for one body id.
func (c *Client) URL(id int) string {
	q := url.Values{}
	q.Set("batch", "1")
	q.Set("COMMAND", quote(strconv.Itoa(id)))
	q.Set("MAKE_EPHEM", quote("YES"))
	q.Set("TABLE_TYPE", quote("VECTOR"))
	q.Set("START_TIME", quote(c.StartTime))
	q.Set("STOP_TIME", quote(c.StopTime))
	q.Set("STEP_SIZE", quote("2 d"))
	q.Set("QUANTITIES", quote("1,9,20,23,24"))
	q.Set("CSV_FORMAT", quote("YES"))
	q.Set("CENTER", quote("500@0"))
	return c.BaseURL + "?" + q.Encode()
}

func quote(s string) string { return "'" + s + "'" }

// Fetch downloads every id and returns the parsed records ordered by id.
// Ids whose page is incomplete are skipped; transport failures abort the
// whole fetch.
func (c *Client) Fetch(ctx context.Context, ids []int) ([]loader.Record, error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	found := make([]*loader.Record, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)

	for i, id := range ids {
		g.Go(func() error {
			page, err := c.page(ctx, id)
			if err != nil {
				return fmt.Errorf("body %d: %w", id, err)
			}

			rec, err := ParsePage(page)
			if err != nil {
				if errors.Is(err, ErrIncomplete) || errors.Is(err, loader.ErrBadMass) || errors.Is(err, loader.ErrNonFinite) {
					c.Logger.Debug("skipping body", "id", id, "reason", err)
					return nil
				}
				return fmt.Errorf("body %d: %w", id, err)
			}

			c.Logger.Debug("fetched body", "id", id, "name", rec.Name)
			found[i] = &rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	recs := make([]loader.Record, 0, len(ids))
	for _, r := range found {
		if r != nil {
			recs = append(recs, *r)
		}
	}
	c.Logger.Info("horizons fetch complete", "requested", len(ids), "bodies", len(recs))
	return recs, nil
}

func (c *Client) page(ctx context.Context, id int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(id), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return string(body), nil
}
