package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"avissok/internal/models"
)

const (
	itemsPath = "/catalog/v1/items"

	// The catalog caps page size; larger limits are fetched page by page.
	maxPageSize = 100
)

// Query describes one search against the newspaper archive.
type Query struct {
	Phrase   string
	Mode     Mode
	FromYear int
	ToYear   int
	Limit    int
}

// Client wraps the archive's REST catalog with helpers tailored to this
// project. All searches are restricted to the digitised newspaper corpus.
type Client struct {
	rc  *resty.Client
	log *slog.Logger
}

// New instantiates the archive client.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{rc: rc, log: logger}
}

type searchResponse struct {
	Embedded struct {
		Items []struct {
			ID       string `json:"id"`
			Metadata struct {
				Title       string `json:"title"`
				Identifiers struct {
					URN string `json:"urn"`
				} `json:"identifiers"`
				OriginInfo struct {
					Issued string `json:"issued"`
				} `json:"originInfo"`
			} `json:"metadata"`
		} `json:"items"`
	} `json:"_embedded"`
	Page struct {
		TotalElements int64 `json:"totalElements"`
		TotalPages    int   `json:"totalPages"`
		Number        int   `json:"number"`
	} `json:"page"`
}

// Search fetches up to q.Limit newspaper hits for the phrase, paging
// through the catalog until the limit or the last page is reached. Items
// without a parseable issue year are skipped. The returned order is
// whatever the archive produced; callers must not depend on it.
func (c *Client) Search(ctx context.Context, q Query) ([]models.Article, error) {
	if q.Limit <= 0 {
		q.Limit = maxPageSize
	}

	params := buildParams(q)
	records := make([]models.Article, 0, min(q.Limit, maxPageSize))

	for page := 0; len(records) < q.Limit; page++ {
		size := min(q.Limit-len(records), maxPageSize)

		resp, err := c.rc.R().
			SetContext(ctx).
			SetQueryParamsFromValues(params).
			SetQueryParam("page", strconv.Itoa(page)).
			SetQueryParam("size", strconv.Itoa(size)).
			SetResult(&searchResponse{}).
			ForceContentType("application/json").
			Get(itemsPath)
		if err != nil {
			return nil, fmt.Errorf("archive request: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("archive responded %s: %s",
				resp.Status(), strings.TrimSpace(resp.String()))
		}

		parsed, ok := resp.Result().(*searchResponse)
		if !ok || parsed == nil {
			return nil, fmt.Errorf("archive response: undecodable body")
		}

		for _, item := range parsed.Embedded.Items {
			if len(records) >= q.Limit {
				break
			}

			issued, year := parseIssued(item.Metadata.OriginInfo.Issued)
			if year == 0 {
				c.log.Debug("skipping item without issue year",
					slog.String("id", item.ID),
					slog.String("title", item.Metadata.Title),
				)
				continue
			}

			records = append(records, models.Article{
				URN:         item.Metadata.Identifiers.URN,
				Publication: strings.TrimSpace(item.Metadata.Title),
				Year:        year,
				Issued:      issued,
			})
		}

		if parsed.Page.Number >= parsed.Page.TotalPages-1 || len(parsed.Embedded.Items) == 0 {
			break
		}
	}

	c.log.Info("archive search done",
		slog.String("phrase", q.Phrase),
		slog.String("mode", q.Mode.String()),
		slog.Int("records", len(records)),
	)

	return records, nil
}

// buildParams maps the search mode onto catalog query parameters. Exact
// phrase is a quoted full-text query; fulltext is the same query unquoted;
// freetext hits the tokenized catalog index instead of the OCR text.
func buildParams(q Query) url.Values {
	params := url.Values{}

	switch q.Mode {
	case ModeFulltext:
		params.Set("q", q.Phrase)
		params.Set("searchType", "FULL_TEXT_SEARCH")
	case ModeFreetext:
		params.Set("q", q.Phrase)
	default:
		params.Set("q", `"`+q.Phrase+`"`)
		params.Set("searchType", "FULL_TEXT_SEARCH")
	}

	params.Add("filter", "mediatype:aviser")
	params.Add("filter", fmt.Sprintf("date:[%04d0101 TO %04d1231]", q.FromYear, q.ToYear))

	return params
}

func parseIssued(raw string) (time.Time, int) {
	raw = strings.TrimSpace(raw)

	for _, f := range []string{"2006-01-02", "20060102", "2006"} {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts, ts.Year()
		}
	}

	// Some records carry a bare or prefixed year.
	if len(raw) >= 4 {
		if year, err := strconv.Atoi(raw[:4]); err == nil && year > 0 {
			return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), year
		}
	}

	return time.Time{}, 0
}
