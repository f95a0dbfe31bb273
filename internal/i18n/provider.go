package i18n

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FallbackLanguage is the designated fallback when a requested
// language cannot be loaded.
const FallbackLanguage = "en_US"

const (
	loadAttempts = 3
	retryBackoff = 250 * time.Millisecond
)

//go:embed en_US.json
var embeddedDefault []byte

// DefaultBundle returns the embedded bundle; the last line of defense
// when both the requested language and the fallback fail to load.
func DefaultBundle() *Bundle {
	b, err := decode(embeddedDefault)
	if err != nil {
		// The embedded bundle is compiled in; a decode failure is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("i18n: embedded bundle invalid: %v", err))
	}
	return b
}

// Provider loads language bundles with retry and fallback, caching
// one decoded Bundle per language.
type Provider struct {
	loader  Loader
	log     *slog.Logger
	sleep   func(time.Duration) // test seam

	mu    sync.Mutex
	cache map[string]*Bundle
}

// NewProvider builds a provider over the given transport.
func NewProvider(loader Loader, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{
		loader: loader,
		log:    log,
		sleep:  time.Sleep,
		cache:  make(map[string]*Bundle),
	}
}

// Get returns the bundle for a language. Load failures retry with a
// fixed backoff; exhaustion falls back to FallbackLanguage, and a
// failing fallback yields the embedded default bundle. Get never
// returns a nil bundle. The error reports whether the requested
// language itself could not be served.
func (p *Provider) Get(ctx context.Context, language string) (*Bundle, error) {
	if b := p.cached(language); b != nil {
		return b, nil
	}

	b, err := p.load(ctx, language)
	if err == nil {
		p.store(language, b)
		return b, nil
	}
	p.log.Warn("translation load failed", "language", language, "error", err)

	if language != FallbackLanguage {
		if fb, fbErr := p.Get(ctx, FallbackLanguage); fbErr == nil {
			return fb, fmt.Errorf("language %q unavailable, using %q: %w", language, FallbackLanguage, err)
		}
	}
	// Critical for localized text: both the requested language and the
	// fallback failed. Serve the embedded default.
	return DefaultBundle(), fmt.Errorf("language %q and fallback unavailable: %w", language, err)
}

func (p *Provider) load(ctx context.Context, language string) (*Bundle, error) {
	var lastErr error
	for attempt := 1; attempt <= loadAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := p.loader.LoadBundle(ctx, language)
		if err == nil {
			b, decErr := decode(raw)
			if decErr == nil {
				return b, nil
			}
			err = decErr
		}
		lastErr = err
		if attempt < loadAttempts {
			p.sleep(retryBackoff)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", loadAttempts, lastErr)
}

func (p *Provider) cached(language string) *Bundle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache[language]
}

func (p *Provider) store(language string, b *Bundle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache[language] = b
}
