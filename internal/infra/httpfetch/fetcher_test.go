package httpfetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/infra/httpclient"
)

const body = "# header\n1974  5 19  1974.3795   333.37\n"

func server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/co2.txt":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, body)
		case "/big":
			_, _ = io.WriteString(w, strings.Repeat("x", 2048))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
		case "/boom":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_WritesFile(t *testing.T) {
	srv := server(t)
	dst := filepath.Join(t.TempDir(), "data", "co2.txt")

	var progress bytes.Buffer
	var size int64
	f := New(httpclient.New(httpclient.DefaultConfig()), WithProgress(func(n int64) io.Writer {
		size = n
		return &progress
	}))

	n, err := f.Fetch(context.Background(), srv.URL+"/co2.txt", dst)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if n != int64(len(body)) || size != int64(len(body)) {
		t.Fatalf("written=%d size=%d, want %d", n, size, len(body))
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != body || progress.String() != body {
		t.Fatalf("unexpected content %q / progress %q", got, progress.String())
	}
	if _, err := os.Stat(dst + ".part"); !os.IsNotExist(err) {
		t.Fatalf("partial file left behind")
	}
}

func TestFetch_Errors(t *testing.T) {
	srv := server(t)

	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	f := New(httpclient.New(cfg), WithMaxBytes(1024))

	tests := []struct {
		name string
		path string
		kind domain.ErrorKind
	}{
		{"not found", "/missing", domain.KindNotFound},
		{"server error", "/boom", domain.KindExecution},
		{"too large", "/big", domain.KindInvalidData},
		{"timeout", "/slow", domain.KindExecution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			dst := filepath.Join(dir, "out.txt")
			if err := os.WriteFile(dst, []byte("previous"), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := f.Fetch(context.Background(), srv.URL+tt.path, dst)
			if !domain.IsKind(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}

			got, _ := os.ReadFile(dst)
			if string(got) != "previous" {
				t.Fatalf("existing file was replaced: %q", got)
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 1 {
				t.Fatalf("expected only the original file, got %d entries", len(entries))
			}
		})
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	f := New(http.DefaultClient)
	_, err := f.Fetch(context.Background(), "://bad", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFetch_Canceled(t *testing.T) {
	srv := server(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(http.DefaultClient).Fetch(ctx, srv.URL+"/co2.txt", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
