package pivotlai

import (
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}
}

func silentLogger() log.FieldLogger {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger
}

func TestBreakerCapability_Trips(t *testing.T) {
	boom := errors.New("boom")
	inner := &stubCapability{translate: func(ctx context.Context, text string) (string, error) {
		return "", boom
	}}
	c := NewBreakerCapability(inner, testBreakerConfig(), silentLogger())

	if c.State("es", "en") != gobreaker.StateClosed {
		t.Fatal("Unused pairs should be closed")
	}

	session, err := c.Create(context.Background(), "es", "en")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := session.Translate(context.Background(), "Hola"); !errors.Is(err, boom) {
			t.Fatalf("Expected backend error, got %v", err)
		}
	}

	if c.State("es", "en") != gobreaker.StateOpen {
		t.Fatalf("Expected open breaker, got %s", c.State("es", "en"))
	}

	// The open session short-circuits without calling the backend
	if _, err := session.Translate(context.Background(), "Hola"); !errors.Is(err, ErrCapabilityUnavailable) {
		t.Errorf("Expected ErrCapabilityUnavailable, got %v", err)
	}
	if inner.translateCount() != 2 {
		t.Errorf("Expected 2 backend calls, got %d", inner.translateCount())
	}

	_, err = c.Create(context.Background(), "es", "en")
	if !errors.Is(err, ErrCapabilityUnavailable) || errors.Is(err, ErrPairUnsupported) {
		t.Errorf("Expected an unavailable pair error, got %v", err)
	}

	// Other pairs are unaffected
	if c.State("en", "fr") != gobreaker.StateClosed {
		t.Error("Other pairs should stay closed")
	}
}

func TestBreakerCapability_IgnoresCancellation(t *testing.T) {
	inner := &stubCapability{translate: func(ctx context.Context, text string) (string, error) {
		return "", context.Canceled
	}}
	c := NewBreakerCapability(inner, testBreakerConfig(), silentLogger())

	session, _ := c.Create(context.Background(), "es", "en")
	for i := 0; i < 5; i++ {
		session.Translate(context.Background(), "Hola")
	}

	if c.State("es", "en") != gobreaker.StateClosed {
		t.Errorf("Cancellation should not trip the breaker, got %s", c.State("es", "en"))
	}
}

func TestBreakerCapability_PivotsAroundOpenPair(t *testing.T) {
	broken := true
	inner := &stubCapability{translate: func(ctx context.Context, text string) (string, error) {
		if broken {
			return "", errors.New("boom")
		}
		return "<" + text + ">", nil
	}}
	c := NewBreakerCapability(inner, testBreakerConfig(), silentLogger())

	session, _ := c.Create(context.Background(), "es", "fr")
	session.Translate(context.Background(), "Hola")
	session.Translate(context.Background(), "Hola")
	broken = false

	o := NewOrchestrator(c, WithLogger(silentLogger()))
	res := o.TranslateResult(context.Background(), "Hola", "es", "fr")

	if res.Status != StatusPivot {
		t.Fatalf("Expected a pivot around the open pair, got %s (%v)", res.Status, res.Err)
	}
	if res.Text != "<<Hola>>" {
		t.Errorf("Expected two pivot legs, got %q", res.Text)
	}
}
