package main

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/celebrity_radar/app/celebrity_radar/pkg/model"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, model.NewBatchSummary(
		[]model.ProcessingResult{{Name: "A", Sentiment: 0.5}, {Name: "B", Sentiment: -0.1}},
		[]string{"C"},
	))

	out := buf.String()
	assert.Contains(t, out, "Total attempted: 3")
	assert.Contains(t, out, "Success rate: 66.7%")
	assert.Contains(t, out, "  - A: 0.50 (positive)")
	assert.Contains(t, out, "  - B: -0.10 (neutral)")
	assert.Contains(t, out, "✗ Failed celebrities:\n  - C\n")
}

func TestPrintSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, model.NewBatchSummary(nil, nil))
	assert.NotContains(t, buf.String(), "Failed celebrities")
	assert.Contains(t, buf.String(), "Success rate: 0.0%")
}

func TestRunScheduled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	var runs atomic.Int32
	err := runScheduled(ctx, "@every 1s", func() { runs.Add(1) })
	require.NoError(t, err)
	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestRunScheduled_InvalidSpec(t *testing.T) {
	err := runScheduled(context.Background(), "not a cron spec", func() {})
	assert.Error(t, err)
}
