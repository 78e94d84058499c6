package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/tickerlens/tickerlens/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		client: resty.New().SetBaseURL(srv.URL),
		apiKey: "test-key",
		logger: common.GetLogger(),
	}
}

func TestExtractBuildsFragment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"OCRExitCode": 1, "ParsedResults": [
			{"ParsedText": "AAPL 4H\nRSI 62.4\n\n  MACD crossing  \n"}
		]}`)
	})

	fragment, err := client.Extract(context.Background(), "https://charts.example.com/a.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, want := range []string{
		"Stock Chart Analysis Results:",
		"Text detected in chart:",
		"- AAPL 4H",
		"- RSI 62.4",
		"- MACD crossing",
		"Key support and resistance levels",
	} {
		if !strings.Contains(fragment, want) {
			t.Errorf("fragment missing %q:\n%s", want, fragment)
		}
	}
}

func TestExtractNoTextIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"OCRExitCode": 1, "ParsedResults": [{"ParsedText": "  \n  "}]}`)
	})

	fragment, err := client.Extract(context.Background(), "https://charts.example.com/a.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(fragment, "No text was detected") {
		t.Fatalf("fragment missing no-text notice:\n%s", fragment)
	}
}

func TestExtractFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-200": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
		"bad exit code": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"OCRExitCode": 3, "ParsedResults": []}`)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `oops`)
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, handler)
			_, err := client.Extract(context.Background(), "https://charts.example.com/a.png")
			if !errors.Is(err, ErrOCRFailed) {
				t.Fatalf("err = %v, want ErrOCRFailed", err)
			}
		})
	}
}
