package thumborurl

import (
	"context"
	"crypto/hmac"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/cshum/thumborurl/cascade"
	"github.com/cshum/thumborurl/metrics/instrumentation"
	"github.com/cshum/thumborurl/thumborpath"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const Version = "1.0.0"

// keyring signing material derived from one key, never modified once built
type keyring struct {
	key    string
	signer thumborpath.Signer
	legacy *thumborpath.LegacyEncrypter
}

func newKeyring(key string) (*keyring, error) {
	k := &keyring{key: key, signer: thumborpath.NewDefaultSigner(key)}
	if key != "" {
		var err error
		if k.legacy, err = thumborpath.NewLegacyEncrypter(key); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// URLBuilder generates thumbor URLs with a configured key.
// Without a key, modern URLs are unsafe and legacy URLs fail.
type URLBuilder struct {
	Logger           *zap.Logger
	Debug            bool
	Legacy           bool
	BatchConcurrency int
	Instrumentation  *instrumentation.Instrumentation

	keys atomic.Pointer[keyring]
}

// New create new URLBuilder
func New(options ...Option) *URLBuilder {
	b := &URLBuilder{
		Logger:           zap.NewNop(),
		BatchConcurrency: 16,
	}
	b.keys.Store(&keyring{})
	for _, option := range options {
		option(b)
	}
	if b.Instrumentation == nil {
		b.Instrumentation = instrumentation.New(b.Logger)
	}
	if b.Debug {
		b.debugLog()
	}
	return b
}

// SetKey replaces the key. Calls in progress keep the key they started with.
func (b *URLBuilder) SetKey(key string) error {
	k, err := newKeyring(key)
	if err != nil {
		return err
	}
	b.keys.Store(k)
	return nil
}

// Unsafe reports whether no key is configured
func (b *URLBuilder) Unsafe() bool {
	return b.keys.Load().key == ""
}

// Generate thumbor URL path from Options,
// legacy encrypted if o.Old or b.Legacy else HMAC signed or unsafe
func (b *URLBuilder) Generate(o thumborpath.Options) (url string, err error) {
	k := b.keys.Load()
	o.Old = o.Old || b.Legacy
	scheme := instrumentation.SchemeModern
	if o.Old {
		scheme = instrumentation.SchemeLegacy
	}
	timer := b.Instrumentation.NewTimer(scheme)
	defer func() {
		timer.ObserveDuration(err)
	}()
	if o.Old {
		url, err = thumborpath.GenerateLegacy(o, k.legacy)
	} else {
		url, err = thumborpath.Generate(o, k.signer)
	}
	if err != nil {
		b.Logger.Debug("generate error", zap.String("image", o.Image), zap.Error(err))
		return "", err
	}
	if b.Debug {
		b.Logger.Debug("generated", zap.String("url", url), zap.String("scheme", scheme))
	}
	return url, nil
}

// GenerateBatch generates URLs of all Options concurrently, in input order.
// It stops at the first error, reported with the index of the failing Options.
func (b *URLBuilder) GenerateBatch(ctx context.Context, batch []thumborpath.Options) ([]string, error) {
	urls := make([]string, len(batch))
	g, ctx := errgroup.WithContext(ctx)
	if b.BatchConcurrency > 0 {
		g.SetLimit(b.BatchConcurrency)
	}
	for i, o := range batch {
		i, o := i, o
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			url, err := b.Generate(o)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Verify reports whether a signed modern path carries a valid signature for the current key
func (b *URLBuilder) Verify(path string) bool {
	k := b.keys.Load()
	if k.signer == nil {
		return false
	}
	_, sig := thumborpath.Parse(path)
	if sig == "" {
		return false
	}
	input := strings.TrimPrefix(strings.TrimLeft(path, "/"), sig+"/")
	return hmac.Equal([]byte(k.signer.Sign(input)), []byte(sig))
}

// Cascade starts a chainable builder for image using the current key
func (b *URLBuilder) Cascade(image string) *cascade.Cascade {
	c := cascade.New(b.keys.Load().key, image)
	if b.Legacy {
		c.Old()
	}
	return c
}

func (b *URLBuilder) debugLog() {
	if !b.Debug {
		return
	}
	b.Logger.Debug("thumborurl",
		zap.String("version", Version),
		zap.Bool("unsafe", b.Unsafe()),
		zap.Bool("legacy", b.Legacy),
		zap.Int("batch_concurrency", b.BatchConcurrency),
	)
}
