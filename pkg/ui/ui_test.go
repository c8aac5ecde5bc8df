package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"listingscraper/pkg/models"
)

func TestBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(ProgressEmpty, 10), Bar(0, 10, 10))
	assert.Equal(t, strings.Repeat(ProgressBar, 5)+strings.Repeat(ProgressEmpty, 5), Bar(5, 10, 10))
	assert.Equal(t, strings.Repeat(ProgressBar, 10), Bar(10, 10, 10))
	assert.Equal(t, strings.Repeat(ProgressEmpty, 4), Bar(3, 0, 4))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h1m", FormatDuration(61*time.Minute))

	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))

	assert.Equal(t, "calculating...", ETA(0, 10, time.Second))
	assert.Equal(t, "5s", ETA(5, 10, 5*time.Second))
}

func TestSummaryLine(t *testing.T) {
	assert.Equal(t, "✓ 52 of 52 downloaded", SummaryLine(models.RunSummary{Total: 52, Succeeded: 52}, false))
	assert.Equal(t, "⚠ 47 of 52 downloaded, 5 failed", SummaryLine(models.RunSummary{Total: 52, Succeeded: 47, Failed: 5}, false))
	assert.Equal(t, "⚠ Cancelled: 10 of 52 downloaded", SummaryLine(models.RunSummary{Total: 52, Succeeded: 10, Cancelled: true}, false))
	assert.Contains(t, SummaryLine(models.RunSummary{Total: 1, Succeeded: 1}, true), "\033[32m")
}

func TestProgressDisplay(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, "123 Main St", false, true)

	p.OnProgress(1, 4)
	p.OnProgress(2, 4)
	assert.Contains(t, buf.String(), "2/4")

	p.Complete(models.RunSummary{Total: 4, Succeeded: 4, Folder: "/tmp/out/123 Main St", Duration: 3 * time.Second})
	out := buf.String()
	assert.Contains(t, out, "✓ 4 of 4 downloaded")
	assert.Contains(t, out, "/tmp/out/123 Main St")
	assert.Contains(t, out, "3s")
	assert.NotContains(t, out, "\033[")
}

func TestProgressDisplayQuietMode(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, "x", false, false)

	p.OnProgress(1, 2)
	assert.Empty(t, buf.String())

	p.Complete(models.RunSummary{Total: 2, Succeeded: 1, Failed: 1})
	assert.True(t, strings.HasPrefix(buf.String(), "⚠ 1 of 2 downloaded, 1 failed"))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)

	p.Info("Provider", "redfin")
	p.Error("Run failed", errors.New("boom"))
	p.Lines([]string{"Price    $1"})

	assert.Equal(t, "Provider: redfin\nRun failed: boom\n  Price    $1\n", buf.String())
}

type recordingSender struct {
	title, message string
}

func (r *recordingSender) Send(title, message string) error {
	r.title, r.message = title, message
	return nil
}

func TestNotifyRun(t *testing.T) {
	s := &recordingSender{}
	n := NewNotifierWithSender(s)

	require.NoError(t, n.NotifyRun(models.RunSummary{Address: "1 Elm", Total: 2, Succeeded: 2}))
	assert.Equal(t, "Listing photos downloaded", s.title)
	assert.Contains(t, s.message, "1 Elm")

	require.NoError(t, n.NotifyRun(models.RunSummary{Total: 2, Succeeded: 1, Failed: 1}))
	assert.Equal(t, "Listing download incomplete", s.title)

	assert.NoError(t, NewNotifierWithSender(nil).NotifyRun(models.RunSummary{}))
}
