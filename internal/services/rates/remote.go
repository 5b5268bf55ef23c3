package rates

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// RateLookup is the remote tier.
type RateLookup interface {
	// Lookup returns the entry for code and the endpoint that answered.
	Lookup(ctx context.Context, code string) (Entry, string, error)
}

var errNoRow = errors.New("no matching row")

const browserUserAgent = "Mozilla/5.0"

// RemoteLookup queries an HSN search page at <BaseURL>/<code> and reads
// the first table row whose code cell equals the query.
type RemoteLookup struct {
	BaseURL string
	client  *http.Client
}

func NewRemoteLookup(baseURL string, timeout time.Duration) *RemoteLookup {
	return &RemoteLookup{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (l *RemoteLookup) Lookup(ctx context.Context, code string) (Entry, string, error) {
	endpoint := l.BaseURL + "/" + code
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Entry{}, endpoint, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return Entry{}, endpoint, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Entry{}, endpoint, fmt.Errorf("lookup %s: status %d", code, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return Entry{}, endpoint, err
	}
	entry, err := findRateRow(doc, code)
	return entry, endpoint, err
}

var reRate = regexp.MustCompile(`(\d{1,2})`)

// findRateRow scans <tr> rows with at least three cells: code, description, rate.
// Only the first row whose code equals the query is considered.
func findRateRow(root *html.Node, code string) (Entry, error) {
	for _, row := range elements(root, "tr") {
		cells := elements(row, "td")
		if len(cells) < 3 || text(cells[0]) != code {
			continue
		}
		m := reRate.FindStringSubmatch(text(cells[2]))
		if m == nil {
			return Entry{}, errNoRow
		}
		rate, _ := strconv.Atoi(m[1])
		// a zero rate is indistinguishable from a failed parse upstream
		if rate == 0 {
			return Entry{}, errNoRow
		}
		return Entry{Rate: rate, Description: text(cells[1])}, nil
	}
	return Entry{}, errNoRow
}

// elements returns every descendant element of n with the given tag, in document order.
func elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
