package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktracker/internal/fetcher"
	"stocktracker/internal/tracker"
)

func sampleRows() []tracker.Row {
	return []tracker.Row{
		tracker.BuildRow(fetcher.Quote("NVDA", 110, 100)),
		tracker.BuildRow(fetcher.Unavailable("COST")),
		tracker.BuildRow(fetcher.Failed("AMD", errors.New("boom"))),
	}
}

func TestTable(t *testing.T) {
	want := strings.Join([]string{
		"| Ticker | Current Price (USD) | Daily Change (%) |",
		"|:-------|:--------------------|:-----------------|",
		"| NVDA   | $110.00             | 10.00%           |",
		"| COST   | N/A                 | N/A              |",
		"| AMD    | Error               | Error            |",
		"",
	}, "\n")

	assert.Equal(t, want, Table(sampleRows()))
}

func TestTable_WidensForLongCells(t *testing.T) {
	rows := []tracker.Row{{Ticker: "BRK-B.LONG", CurrentPrice: "$123456789.00", DailyChange: "1.00%"}}

	lines := strings.Split(strings.TrimSuffix(Table(rows), "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "| Ticker     | Current Price (USD) | Daily Change (%) |", lines[0])
	assert.Equal(t, "| BRK-B.LONG | $123456789.00       | 1.00%            |", lines[2])
}

func TestTable_NoRows(t *testing.T) {
	out := Table(nil)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	err := r.Render(Frame{
		UpdatedAt: time.Date(2026, 10, 16, 9, 30, 5, 0, time.Local),
		Interval:  10 * time.Second,
		Rows:      sampleRows(),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, Banner+"\n"))
	assert.Contains(t, out, "Last Updated: 2026-10-16 09:30:05\n")
	assert.Contains(t, out, "Update Interval: 10 seconds\n\n| Ticker")
	assert.NotContains(t, out, clearSequence)
}

func TestRender_ClearsScreen(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, true).Render(Frame{Interval: time.Second}))
	assert.True(t, strings.HasPrefix(buf.String(), clearSequence))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_WriteError(t *testing.T) {
	err := New(failingWriter{}, false).Render(Frame{})
	assert.Error(t, err)
}

func TestFarewell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Farewell())
	assert.Equal(t, Farewell+"\n", buf.String())
}
