package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"golang.org/x/sync/errgroup"
)

const (
	// warmupSource identifies scheduled warmup events.
	warmupSource = "warmup"

	// warmupDelay keeps instances busy long enough to overlap.
	warmupDelay = 75 * time.Millisecond
)

// WarmupEvent is the scheduled event payload that keeps instances warm.
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse is returned for warmup events.
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instancesWarmed"`
}

func isWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil || warmup.Source != warmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	return &warmup, true
}

// handleWarmup counts this instance and asynchronously invokes the function
// Concurrency more times so that many instances are warm at once.
func (h *handler) handleWarmup(ctx context.Context, warmup *WarmupEvent) *WarmupResponse {
	warmed := 1

	if warmup.Concurrency > 0 && h.functionName != "" {
		if err := h.selfInvoke(ctx, warmup.Concurrency); err != nil {
			h.logger.WithError(err).Warn("warmup self-invocation failed")
		} else {
			warmed += warmup.Concurrency
		}
	}

	time.Sleep(warmupDelay)

	return &WarmupResponse{Status: "warm", InstancesWarmed: warmed}
}

func (h *handler) selfInvoke(ctx context.Context, count int) error {
	// Children get concurrency 0 so they do not invoke further
	payload, err := json.Marshal(WarmupEvent{Source: warmupSource})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := h.invoker.Invoke(gctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(h.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
