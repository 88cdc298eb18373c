package chessresults

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/walela/gp/internal/platform/cache"
	"github.com/walela/gp/internal/platform/logging"
	"github.com/walela/gp/internal/platform/resilience"
)

const (
	defaultTimeout = 20 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// disclosureButton is the ASP.NET button that expands the details page.
	disclosureButton = "cb_alleDetails"
)

// DefaultMirrors is the ordered host list tried for every page. The primary
// host throttles aggressively; the numbered mirrors serve the same content.
var DefaultMirrors = []string{
	"https://chess-results.com",
	"https://s1.chess-results.com",
	"https://s2.chess-results.com",
	"https://s3.chess-results.com",
}

var errMirrorTransient = crerr.New("chess-results transient failure")

// IsTransient reports whether err came from mirror exhaustion rather than a
// parse or logic failure.
func IsTransient(err error) bool {
	return crerr.Is(err, errMirrorTransient)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	Mirrors        []string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// PageCache holds fetched pages so the validator and enricher share one
	// fetch per player page. Optional.
	PageCache *cache.Store
}

// Client fetches chess-results.com pages with mirror failover. A page is
// requested from each mirror in order until one answers; the returned error
// after exhaustion aggregates every mirror's cause.
type Client struct {
	httpClient     *http.Client
	mirrors        []string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	pages          *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	mirrors := make([]string, 0, len(cfg.Mirrors))
	for _, m := range cfg.Mirrors {
		m = strings.TrimRight(strings.TrimSpace(m), "/")
		if m != "" {
			mirrors = append(mirrors, m)
		}
	}
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		mirrors:        mirrors,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		pages:          cfg.PageCache,
	}
}

// StandingsPage fetches the final ranking view for the given round count with
// the row limit lifted.
func (c *Client) StandingsPage(ctx context.Context, tournamentID string, rounds int) (string, error) {
	query := url.Values{}
	query.Set("lan", "1")
	query.Set("art", "1")
	query.Set("rd", strconv.Itoa(rounds))
	query.Set("zeilen", "99999")

	return c.fetch(ctx, tournamentPath(tournamentID), query, false)
}

// DetailsPage fetches the tournament details view. When the page hides its
// metadata behind the "show details" button, the hidden form is resubmitted
// against the same mirror that served it.
func (c *Client) DetailsPage(ctx context.Context, tournamentID string) (string, error) {
	query := url.Values{}
	query.Set("lan", "1")
	query.Set("flag", "30")
	query.Set("turdet", "YES")

	return c.fetch(ctx, tournamentPath(tournamentID), query, true)
}

// PlayerPage fetches one player's round-by-round card by starting rank.
func (c *Client) PlayerPage(ctx context.Context, tournamentID string, startRank int) (string, error) {
	query := url.Values{}
	query.Set("lan", "1")
	query.Set("art", "9")
	query.Set("snr", strconv.Itoa(startRank))
	query.Set("turdet", "YES")
	query.Set("flag", "30")

	return c.fetch(ctx, tournamentPath(tournamentID), query, false)
}

func tournamentPath(tournamentID string) string {
	return "/tnr" + strings.TrimSpace(tournamentID) + ".aspx"
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values, disclose bool) (string, error) {
	key := path + "?" + query.Encode()
	if disclose {
		key += "#disclosed"
	}

	if c.pages != nil {
		if v, ok := c.pages.Get(key); ok {
			return v.(string), nil
		}
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "chess-results circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return "", fmt.Errorf("%w: chess-results is temporarily unavailable: %v", errMirrorTransient, err)
		}
	}

	out, err, _ := c.flight.Do(key, func() (any, error) {
		html, err := c.walkMirrors(ctx, path, query, disclose)
		if err != nil {
			if c.circuitEnabled {
				c.breaker.RecordFailure()
			}
			return nil, err
		}

		if c.circuitEnabled {
			c.breaker.RecordSuccess()
		}
		if c.pages != nil {
			c.pages.Set(key, html)
		}
		return html, nil
	})
	if err != nil {
		return "", err
	}

	return out.(string), nil
}

func (c *Client) walkMirrors(ctx context.Context, path string, query url.Values, disclose bool) (string, error) {
	var causes []error
	for _, mirror := range c.mirrors {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fullURL := mirror + path + "?" + query.Encode()
		html, err := c.get(ctx, fullURL)
		if err == nil && disclose {
			if form, needed := disclosureForm(html); needed {
				html, err = c.postForm(ctx, fullURL, form)
			}
		}
		if err == nil {
			return html, nil
		}

		c.logger.WarnContext(ctx, "chess-results mirror failed", "mirror", mirror, "path", path, "error", err)
		causes = append(causes, crerr.Wrapf(err, "mirror %s", mirror))
	}

	combined := causes[0]
	for _, cause := range causes[1:] {
		combined = crerr.CombineErrors(combined, cause)
	}
	return "", fmt.Errorf("%w: all %d mirrors failed for %s: %v", errMirrorTransient, len(c.mirrors), path, combined)
}

func (c *Client) get(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", crerr.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)

	return c.do(req)
}

func (c *Client) postForm(ctx context.Context, fullURL string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", crerr.Wrap(err, "create form request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", crerr.Newf("unexpected status %d", resp.StatusCode)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		return "", crerr.Wrap(err, "read response body")
	}

	return buf.String(), nil
}

// disclosureForm rebuilds the hidden ASP.NET form needed to expand the
// details page: every hidden input plus the disclosure button's own value.
func disclosureForm(html string) (url.Values, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false
	}

	button := doc.Find("input[name=" + disclosureButton + "]").First()
	if button.Length() == 0 {
		return nil, false
	}

	form := url.Values{}
	form.Set("__EVENTTARGET", "")
	form.Set("__EVENTARGUMENT", "")
	value, ok := button.Attr("value")
	if !ok || value == "" {
		value = "Show tournament details"
	}
	form.Set(disclosureButton, value)

	doc.Find("input[type=hidden]").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		v, _ := s.Attr("value")
		form.Set(name, v)
	})

	return form, true
}
