// Package display renders the price table to a terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"stocktracker/internal/tracker"
)

const (
	// Banner is printed at the top of every frame.
	Banner = "🚀 Real-Time Top Performer Stock Tracker (Simulated)"
	// Farewell is printed once when the tracker is interrupted.
	Farewell = "\n\nTracker stopped by user. Thank you for using the Stock Tracker!"

	rule            = "-----------------------------------------------------"
	timestampLayout = "2006-01-02 15:04:05"
	clearSequence   = "\033[H\033[2J"
)

var headers = [...]string{"Ticker", "Current Price (USD)", "Daily Change (%)"}

// Frame is everything shown for one polling cycle.
type Frame struct {
	UpdatedAt time.Time
	Interval  time.Duration
	Rows      []tracker.Row
}

// Renderer writes frames to an output stream.
type Renderer struct {
	out         io.Writer
	clearScreen bool
}

// New creates a Renderer writing to out. When clearScreen is set each frame
// starts by clearing the terminal.
func New(out io.Writer, clearScreen bool) *Renderer {
	return &Renderer{
		out:         out,
		clearScreen: clearScreen,
	}
}

// Render writes one frame.
func (r *Renderer) Render(f Frame) error {
	var b strings.Builder

	if r.clearScreen {
		b.WriteString(clearSequence)
	}
	b.WriteString(Banner + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Last Updated: %s\n", f.UpdatedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "Update Interval: %d seconds\n\n", int(f.Interval/time.Second))
	b.WriteString(Table(f.Rows))

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Farewell writes the shutdown message.
func (r *Renderer) Farewell() error {
	_, err := fmt.Fprintln(r.out, Farewell)
	return err
}

// Table formats rows as a left-aligned pipe table without a row index.
func Table(rows []tracker.Row) string {
	cells := make([][3]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, [3]string{row.Ticker, row.CurrentPrice, row.DailyChange})
	}

	var widths [3]int
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, c := range cells {
		for i, v := range c {
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
	}

	var b strings.Builder
	writeLine(&b, headers, widths)

	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(":" + strings.Repeat("-", w+1) + "|")
	}
	b.WriteString("\n")

	for _, c := range cells {
		writeLine(&b, c, widths)
	}
	return b.String()
}

func writeLine(b *strings.Builder, cols [3]string, widths [3]int) {
	b.WriteString("|")
	for i, v := range cols {
		pad := widths[i] - utf8.RuneCountInString(v)
		b.WriteString(" " + v + strings.Repeat(" ", pad) + " |")
	}
	b.WriteString("\n")
}
