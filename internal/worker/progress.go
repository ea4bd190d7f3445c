package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MeKo-Tech/planetgen/internal/icosphere"
)

// Progress tracks and displays patch generation progress, along with running
// mesh totals for the patches built so far.
type Progress struct {
	startTime time.Time
	output    io.Writer
	total     int
	completed int
	failed    int
	vertices  int
	triangles int
	mu        sync.RWMutex
	enabled   bool
}

// NewProgress creates a new progress tracker writing to stderr.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		total:     total,
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// Update records the completion of a task.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	p.completed = completed
	p.total = total
	p.failed = failed
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Record adds a finished patch to the mesh totals.
func (p *Progress) Record(patch *icosphere.Patch) {
	if patch == nil {
		return
	}
	p.mu.Lock()
	p.vertices += len(patch.Vertices)
	p.triangles += patch.TriangleCount()
	p.mu.Unlock()
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// Print draws the progress bar on a single, repeatedly overwritten line.
func (p *Progress) Print() {
	p.mu.RLock()
	completed, total, failed := p.completed, p.total, p.failed
	startTime := p.startTime
	p.mu.RUnlock()

	elapsed := time.Since(startTime)

	var rate float64
	if completed > 0 && elapsed > 0 {
		rate = float64(completed) / elapsed.Seconds()
	}

	const barWidth = 20
	filled := 0
	if total > 0 {
		filled = completed * barWidth / total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	line := fmt.Sprintf("\r[%s] %d/%d patches", bar, completed, total)
	if failed > 0 {
		line += fmt.Sprintf(" (%d failed)", failed)
	}
	line += fmt.Sprintf(" - %.1f patches/sec", rate)
	if completed == total {
		line += fmt.Sprintf(" - Done in %s", formatDuration(elapsed))
	}

	// Pad to clear previous line content
	line += "          "

	fmt.Fprint(p.output, line)
}

// Done prints the final progress and a newline.
func (p *Progress) Done() {
	if p.enabled {
		p.Print()
		fmt.Fprintln(p.output)
	}
}

// Totals returns the vertex and triangle counts recorded so far.
func (p *Progress) Totals() (vertices, triangles int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.vertices, p.triangles
}

// Summary returns a summary string of the completed work.
func (p *Progress) Summary() string {
	p.mu.RLock()
	completed, total, failed := p.completed, p.total, p.failed
	vertices, triangles := p.vertices, p.triangles
	startTime := p.startTime
	p.mu.RUnlock()

	return fmt.Sprintf("Built %d/%d patches (%d failed, %d vertices, %d triangles) in %s",
		completed-failed, total, failed, vertices, triangles, formatDuration(time.Since(startTime)))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
