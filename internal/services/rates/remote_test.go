package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const searchPage = `<html><body>
<table>
  <tr><th>HSN</th><th>Description</th><th>GST</th></tr>
  <tr><td>9403</td><td>Other furniture</td><td>18%</td></tr>
  <tr><td> 73239920 </td><td><span>Table, kitchen or other household articles</span></td><td>12 %</td></tr>
  <tr><td>73239920</td><td>Duplicate row</td><td>28%</td></tr>
  <tr><td>99999999</td><td>Exempt</td><td>Nil</td></tr>
  <tr><td>11111111</td><td>Zero</td><td>0%</td></tr>
</table>
</body></html>`

func newSearchServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		if r.Header.Get("User-Agent") != browserUserAgent {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/500") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, searchPage)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteLookup(t *testing.T) {
	srv := newSearchServer(t, nil)
	lookup := NewRemoteLookup(srv.URL+"/hsn-code/search/", time.Second)

	e, endpoint, err := lookup.Lookup(context.Background(), "73239920")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if e.Rate != 12 {
		t.Errorf("rate = %d, want 12 from the first matching row", e.Rate)
	}
	if e.Description != "Table, kitchen or other household articles" {
		t.Errorf("description = %q", e.Description)
	}
	if endpoint != srv.URL+"/hsn-code/search/73239920" {
		t.Errorf("endpoint = %q", endpoint)
	}
}

func TestRemoteLookupMisses(t *testing.T) {
	srv := newSearchServer(t, nil)
	lookup := NewRemoteLookup(srv.URL, time.Second)

	for _, code := range []string{"94035000", "99999999", "11111111", "500"} {
		t.Run(code, func(t *testing.T) {
			if _, _, err := lookup.Lookup(context.Background(), code); err == nil {
				t.Errorf("expected a miss for %s", code)
			}
		})
	}
}

func TestRemoteLookupUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, _, err := NewRemoteLookup(url, 200*time.Millisecond).Lookup(context.Background(), "94035000"); err == nil {
		t.Fatalf("expected a transport error")
	}
}
