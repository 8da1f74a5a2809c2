package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/haukened/rr-blocklist/internal/blocklist/common/clock"
	"github.com/haukened/rr-blocklist/internal/blocklist/common/log"
	"github.com/haukened/rr-blocklist/internal/blocklist/domain"
)

const (
	// DefaultUserAgent mimics a desktop browser; some list hosts refuse
	// requests from unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit Chrome Safari"
	// DefaultTimeout bounds a single source retrieval.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBodyBytes caps the size of a single document.
	DefaultMaxBodyBytes int64 = 256 << 20

	plainTextContentType = "text/plain"
)

var (
	errInvalidSequence = errors.New("invalid byte sequence")
	errTooLarge        = errors.New("document exceeds size limit")
)

// Fetcher retrieves and decodes one source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (domain.Document, error)
}

// Options configures a Fetcher. Zero values select the defaults.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	Client       *http.Client
	Logger       log.Logger
	Clock        clock.Clock
}

// fetcher loads http, https and file sources.
type fetcher struct {
	userAgent string
	timeout   time.Duration
	maxBytes  int64
	client    *http.Client
	logger    log.Logger
	clock     clock.Clock
}

// NewFetcher returns a Fetcher for http, https and file locators.
func NewFetcher(opts Options) Fetcher {
	f := &fetcher{
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		maxBytes:  opts.MaxBodyBytes,
		client:    opts.Client,
		logger:    opts.Logger,
		clock:     opts.Clock,
	}
	if f.userAgent == "" {
		f.userAgent = DefaultUserAgent
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	if f.maxBytes <= 0 {
		f.maxBytes = DefaultMaxBodyBytes
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	if f.logger == nil {
		f.logger = log.NewNoopLogger()
	}
	if f.clock == nil {
		f.clock = clock.RealClock{}
	}
	return f
}

// Fetch retrieves source and decodes it to text. Local files are trusted;
// remote sources must answer 200 OK with a complete body.
func (f *fetcher) Fetch(ctx context.Context, source string) (domain.Document, error) {
	locator := NormalizeLocator(source)
	start := f.clock.Now()
	f.logger.Info(map[string]any{"source": source}, "source_fetch_start")

	var (
		doc domain.Document
		err error
	)
	switch Scheme(locator) {
	case schemeFile:
		doc, err = f.fetchFile(source, locator)
	case schemeHTTP, schemeHTTPS:
		doc, err = f.fetchHTTP(ctx, source, locator)
	default:
		err = &domain.RetrievalError{Source: source, Err: fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, Scheme(locator))}
	}
	if err != nil {
		f.logger.Debug(map[string]any{"source": source, "error": err.Error()}, "source_fetch_failed")
		return domain.Document{}, err
	}

	f.logger.Info(map[string]any{
		"source":   source,
		"bytes":    len(doc.Content),
		"encoding": doc.Encoding,
		"trusted":  doc.Trusted,
		"duration": clock.Since(f.clock, start).String(),
	}, "source_fetch_done")
	return doc, nil
}

func (f *fetcher) fetchFile(source, locator string) (domain.Document, error) {
	body, err := os.ReadFile(filePath(locator))
	if err != nil {
		return domain.Document{}, &domain.RetrievalError{Source: source, Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return domain.Document{}, &domain.RetrievalError{Source: source, Err: errTooLarge}
	}
	text, enc, err := decodeContent(source, body, plainTextContentType)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Source: source, Content: text, Trusted: true, Encoding: enc}, nil
}

func (f *fetcher) fetchHTTP(ctx context.Context, source, locator string) (domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return domain.Document{}, &domain.RetrievalError{Source: source, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Document{}, &domain.RetrievalError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Document{}, &domain.RetrievalError{
			Source: source,
			Err:    fmt.Errorf("%w: returned HTTP code %d", domain.ErrUnexpectedStatus, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: %v", domain.ErrShortRead, err)
		}
		return domain.Document{}, &domain.RetrievalError{Source: source, Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return domain.Document{}, &domain.RetrievalError{Source: source, Err: errTooLarge}
	}
	if resp.ContentLength > 0 && int64(len(body)) < resp.ContentLength {
		return domain.Document{}, &domain.RetrievalError{
			Source: source,
			Err:    fmt.Errorf("%w: got %d of %d bytes", domain.ErrShortRead, len(body), resp.ContentLength),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = plainTextContentType
	}
	text, enc, err := decodeContent(source, body, contentType)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{Source: source, Content: text, Trusted: false, Encoding: enc}, nil
}
