package pivotlai

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCachedCapability_Hit(t *testing.T) {
	inner := &stubCapability{}
	cache := newMapCache()
	c := NewCachedCapability(inner, cache, WithCacheLogger(silentLogger()))

	session, err := c.Create(context.Background(), "es", "en")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		out, err := session.Translate(context.Background(), "Hola")
		if err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
		if out != "<Hola>" {
			t.Errorf("Expected '<Hola>', got %q", out)
		}
	}

	if inner.translateCount() != 1 {
		t.Errorf("Expected 1 backend call, got %d", inner.translateCount())
	}

	key := CacheKey(HashText("Hola"), "es", "en")
	if v, ok := cache.Get(key); !ok || v != "<Hola>" {
		t.Errorf("Expected cached entry under %s, got %q (%v)", key, v, ok)
	}
}

func TestCachedCapability_KeysOnPair(t *testing.T) {
	inner := &stubCapability{}
	c := NewCachedCapability(inner, newMapCache(), WithCacheLogger(silentLogger()))

	for _, target := range []string{"en", "fr"} {
		session, _ := c.Create(context.Background(), "es", target)
		session.Translate(context.Background(), "Hola")
	}

	if inner.translateCount() != 2 {
		t.Errorf("Different pairs must not share entries, got %d backend calls", inner.translateCount())
	}
}

func TestCachedCapability_Namespace(t *testing.T) {
	cache := newMapCache()
	c := NewCachedCapability(&stubCapability{}, cache, WithCacheNamespace("gpt-4o-mini"), WithCacheLogger(silentLogger()))

	session, _ := c.Create(context.Background(), "es", "en")
	session.Translate(context.Background(), "Hola")

	key := CacheKeyExtended(HashText("Hola"), "es", "en", "gpt-4o-mini")
	if _, ok := cache.Get(key); !ok {
		t.Errorf("Expected entry under namespaced key %s", key)
	}
}

func TestCachedCapability_KeepsSurroundingWhitespace(t *testing.T) {
	table := map[string]string{
		"Hola":     "Hello",
		"Hola\n\n": "Hello\n\n",
		"  Hola":   "  Hi there",
	}
	inner := &stubCapability{translate: func(ctx context.Context, text string) (string, error) {
		return table[text], nil
	}}
	c := NewCachedCapability(inner, newMapCache(), WithCacheLogger(silentLogger()))

	session, err := c.Create(context.Background(), "es", "en")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Twice, so the second round is served from the cache
	for round := 0; round < 2; round++ {
		for _, input := range []string{"Hola", "Hola\n\n", "  Hola"} {
			out, err := session.Translate(context.Background(), input)
			if err != nil {
				t.Fatalf("Translate(%q) failed: %v", input, err)
			}
			if out != table[input] {
				t.Errorf("round %d: Translate(%q) = %q, want %q", round, input, out, table[input])
			}
		}
	}

	if inner.translateCount() != 3 {
		t.Errorf("Expected one backend call per distinct text, got %d", inner.translateCount())
	}
}

func TestCachedCapability_WaiterOutlivesCanceledCaller(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	inner := &stubCapability{translate: func(ctx context.Context, text string) (string, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "Hello", nil
	}}
	c := NewCachedCapability(inner, newMapCache(), WithCacheLogger(silentLogger()))
	session, _ := c.Create(context.Background(), "es", "en")

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := session.Translate(firstCtx, "Hola")
		firstErr <- err
	}()
	<-started

	type result struct {
		out string
		err error
	}
	second := make(chan result, 1)
	go func() {
		out, err := session.Translate(context.Background(), "Hola")
		second <- result{out, err}
	}()

	// Let the second caller join the in-flight call
	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("Canceled caller should see context.Canceled, got %v", err)
	}

	close(release)
	res := <-second
	if res.err != nil || res.out != "Hello" {
		t.Errorf("Live waiter should get the shared result, got %q (%v)", res.out, res.err)
	}
}

func TestCachedCapability_BlankBypass(t *testing.T) {
	inner := &stubCapability{}
	cache := newMapCache()
	c := NewCachedCapability(inner, cache, WithCacheLogger(silentLogger()))

	session, _ := c.Create(context.Background(), "es", "en")
	session.Translate(context.Background(), "   ")
	session.Translate(context.Background(), "   ")

	if inner.translateCount() != 2 {
		t.Errorf("Blank text should bypass the cache, got %d backend calls", inner.translateCount())
	}
	if cache.setCalls != 0 {
		t.Errorf("Blank text should not be stored, got %d writes", cache.setCalls)
	}
}

func TestCachedCapability_ErrorsNotCached(t *testing.T) {
	fail := true
	inner := &stubCapability{translate: func(ctx context.Context, text string) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "Hello", nil
	}}
	c := NewCachedCapability(inner, newMapCache(), WithCacheLogger(silentLogger()))

	session, _ := c.Create(context.Background(), "es", "en")
	if _, err := session.Translate(context.Background(), "Hola"); err == nil {
		t.Fatal("Expected backend error")
	}

	fail = false
	out, err := session.Translate(context.Background(), "Hola")
	if err != nil || out != "Hello" {
		t.Errorf("Expected fresh translation after a failure, got %q (%v)", out, err)
	}
}

func TestCachedCapability_SetFailureIgnored(t *testing.T) {
	cache := newMapCache()
	cache.setErr = errors.New("redis down")
	c := NewCachedCapability(&stubCapability{}, cache, WithCacheLogger(silentLogger()))

	session, _ := c.Create(context.Background(), "es", "en")
	out, err := session.Translate(context.Background(), "Hola")

	if err != nil || out != "<Hola>" {
		t.Errorf("Cache write failures must not fail the hop, got %q (%v)", out, err)
	}
}

func TestCachedCapability_CreateError(t *testing.T) {
	c := NewCachedCapability(&stubCapability{supported: map[string]bool{}}, newMapCache())

	if _, err := c.Create(context.Background(), "es", "en"); !errors.Is(err, ErrPairUnsupported) {
		t.Errorf("Expected ErrPairUnsupported, got %v", err)
	}
}
