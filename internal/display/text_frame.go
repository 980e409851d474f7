package display

import (
	"sort"
	"strings"
	"sync"
)

// Row is one line of text placed at a pixel position.
type Row struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Font string `json:"font"`
	Text string `json:"text"`
}

// TextFrame records what would be drawn on the OLED. Rows printed between
// ClearBuffer and SendBuffer form a frame; the last sent frame can be read
// concurrently with drawing.
type TextFrame struct {
	mu      sync.RWMutex
	begun   bool
	font    Font
	x, y    int
	pending map[[2]int]*Row
	sent    []Row
	frames  int
}

// NewTextFrame returns a recording display.
func NewTextFrame() *TextFrame {
	return &TextFrame{pending: make(map[[2]int]*Row)}
}

// Ensure implementation of Display interface at compile time.
var _ Display = (*TextFrame)(nil)

func (d *TextFrame) Begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.begun = true
	d.font = FontSmall
	return nil
}

func (d *TextFrame) ClearBuffer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = make(map[[2]int]*Row)
	d.x, d.y = 0, 0
}

func (d *TextFrame) SetFont(f Font) {
	d.mu.Lock()
	d.font = f
	d.mu.Unlock()
}

func (d *TextFrame) SetCursor(x, y int) {
	d.mu.Lock()
	d.x, d.y = x, y
	d.mu.Unlock()
}

// Print appends s at the cursor. Consecutive prints on one row concatenate.
func (d *TextFrame) Print(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := [2]int{d.x, d.y}
	row, ok := d.pending[key]
	if !ok {
		row = &Row{X: d.x, Y: d.y, Font: d.font.String()}
		d.pending[key] = row
	}
	row.Text += s
}

func (d *TextFrame) SendBuffer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	rows := make([]Row, 0, len(d.pending))
	for _, r := range d.pending {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Y != rows[j].Y {
			return rows[i].Y < rows[j].Y
		}
		return rows[i].X < rows[j].X
	})
	d.sent = rows
	d.frames++
}

// Frame returns a copy of the last sent frame.
func (d *TextFrame) Frame() []Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Row, len(d.sent))
	copy(out, d.sent)
	return out
}

// Lines returns the text of the last sent frame, top to bottom.
func (d *TextFrame) Lines() []string {
	rows := d.Frame()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}
	return out
}

// String renders the last frame as newline-separated text.
func (d *TextFrame) String() string { return strings.Join(d.Lines(), "\n") }

// Frames returns how many frames have been sent.
func (d *TextFrame) Frames() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.frames
}
