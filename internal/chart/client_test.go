package chart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/tickerlens/tickerlens/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		client:   resty.New().SetBaseURL(srv.URL),
		apiKey:   "test-key",
		interval: "4h",
		logger:   common.GetLogger(),
	}
}

func TestRenderSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "TSLA" {
			t.Errorf("symbol = %q", got)
		}
		if got := r.URL.Query().Get("interval"); got != "4h" {
			t.Errorf("interval = %q", got)
		}
		fmt.Fprint(w, `{"chart_url": "https://charts.example.com/tsla.png"}`)
	})

	artifact, err := client.Render(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if artifact.ImageURL != "https://charts.example.com/tsla.png" {
		t.Errorf("image url = %q", artifact.ImageURL)
	}
	if artifact.Symbol != "TSLA" {
		t.Errorf("symbol = %q", artifact.Symbol)
	}
}

func TestRenderFailuresMapToChartUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-200": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>not json</html>`)
		},
		"empty chart_url": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart_url": ""}`)
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, handler)
			_, err := client.Render(context.Background(), "TSLA")
			if !errors.Is(err, ErrChartUnavailable) {
				t.Fatalf("err = %v, want ErrChartUnavailable", err)
			}
		})
	}
}
