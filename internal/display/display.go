// Package display defines the OLED sink the panel renders into.
package display

// Font selects one of the two bitmap fonts the panel uses.
type Font int

const (
	FontSmall Font = iota // 6x12
	FontLarge             // 8x13
)

func (f Font) String() string {
	if f == FontLarge {
		return "8x13"
	}
	return "6x12"
}

// Display is a frame-buffered text sink. The panel never reads from it.
type Display interface {
	Begin() error
	ClearBuffer()
	SetFont(f Font)
	SetCursor(x, y int)
	Print(s string)
	SendBuffer()
}
