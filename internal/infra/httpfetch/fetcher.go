// Package httpfetch downloads published dataset files.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/squisty/bayesian-CO2/internal/domain"
	"github.com/squisty/bayesian-CO2/internal/infra/logger"
	"github.com/squisty/bayesian-CO2/internal/ports"
)

const defaultMaxBytes = 64 << 20

type Fetcher struct {
	client   *http.Client
	maxBytes int64
	progress func(size int64) io.Writer
	log      *slog.Logger
}

type Option func(*Fetcher)

// WithMaxBytes bounds the accepted body size.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithProgress receives the response Content-Length (-1 if unknown) and
// returns a writer that is fed every downloaded byte.
func WithProgress(fn func(size int64) io.Writer) Option {
	return func(f *Fetcher) { f.progress = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   client,
		maxBytes: defaultMaxBytes,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.DatasetFetcher = (*Fetcher)(nil)

// Fetch downloads url into dst. dst is replaced only after the whole body
// has been written.
func (f *Fetcher) Fetch(ctx context.Context, url, dst string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &domain.OpError{
			Op:   "httpfetch.request",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%v: %w", err, domain.ErrInvalidConfig),
		}
	}
	req.Header.Set("Accept", "text/plain, */*")

	f.log.Info("fetch.start", "url", url, "dst", dst)
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, &domain.OpError{
			Op:   "httpfetch.get",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := domain.KindExecution
		sentinel := domain.ErrExecution
		if resp.StatusCode == http.StatusNotFound {
			kind, sentinel = domain.KindNotFound, domain.ErrNotFound
		}
		return 0, &domain.OpError{
			Op:   "httpfetch.get",
			Kind: kind,
			Err:  fmt.Errorf("GET %s: %s: %w", url, resp.Status, sentinel),
		}
	}
	if resp.ContentLength > f.maxBytes {
		return 0, tooLarge(url, f.maxBytes)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, &domain.OpError{
			Op:   "httpfetch.mkdir",
			Kind: domain.KindExecution,
			Path: filepath.Dir(dst),
			Err:  err,
		}
	}

	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, &domain.OpError{
			Op:   "httpfetch.create",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}

	var w io.Writer = out
	if f.progress != nil {
		if pw := f.progress(resp.ContentLength); pw != nil {
			w = io.MultiWriter(out, pw)
		}
	}

	n, copyErr := io.Copy(w, io.LimitReader(resp.Body, f.maxBytes+1))
	closeErr := out.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(tmp)
		return 0, &domain.OpError{Op: "httpfetch.read", Kind: domain.KindExecution, Path: tmp, Err: copyErr}
	case n > f.maxBytes:
		_ = os.Remove(tmp)
		return 0, tooLarge(url, f.maxBytes)
	case closeErr != nil:
		_ = os.Remove(tmp)
		return 0, &domain.OpError{Op: "httpfetch.write", Kind: domain.KindExecution, Path: tmp, Err: closeErr}
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return 0, &domain.OpError{
			Op:   "httpfetch.rename",
			Kind: domain.KindExecution,
			Path: dst,
			Err:  err,
		}
	}

	f.log.Info("fetch.done", "url", url, "dst", dst, "bytes", n)
	return n, nil
}

func tooLarge(url string, max int64) error {
	return &domain.OpError{
		Op:   "httpfetch.get",
		Kind: domain.KindInvalidData,
		Err:  fmt.Errorf("%s is larger than %d bytes: %w", url, max, domain.ErrInvalidData),
	}
}
