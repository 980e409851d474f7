package ui

import (
	"fmt"

	"smoking_chamber/internal/display"
	"smoking_chamber/internal/runstate"
)

const (
	listRows      = 5
	listRowHeight = 12
	listLookahead = 3
)

func (n *Navigator) printAt(x, y int, s string) {
	n.Display.SetCursor(x, y)
	n.Display.Print(s)
}

func (n *Navigator) drawMain() {
	snap := n.State.Snapshot()
	t := snap.Telemetry

	n.printAt(0, 0, fmt.Sprintf("%s:%s", snap.Network.Mode, snap.Network.SSID))
	n.printAt(0, 16, fmt.Sprintf("T:%.0f/%.0f/%.0f", t.TempChamber, t.TempSmoke, t.TempProduct))
	n.printAt(0, 28, fmt.Sprintf("H:%.0f%%", t.Humidity))
	n.printAt(0, 40, fmt.Sprintf("HEAT:%s SMOKE:%d%%", onOff(t.HeaterOn), t.SmokePWM))

	if snap.Mode == runstate.Running && snap.Program != nil {
		n.printAt(0, 52, "> "+snap.Program.Name)
		n.printAt(0, 64, fmt.Sprintf("Step %d", snap.StepIndex+1))
		return
	}
	n.printAt(0, 52, "OK - programs")
}

// drawProgramList shows a window of listRows rows that keeps the selected
// row visible.
func (n *Navigator) drawProgramList() {
	names := n.Catalog.Names()
	start := 0
	if n.selected > listLookahead {
		start = n.selected - listLookahead
	}
	for i := 0; i < listRows && start+i < len(names); i++ {
		idx := start + i
		n.Display.SetCursor(0, i*listRowHeight)
		if idx == n.selected {
			n.Display.Print("> ")
		}
		n.Display.Print(names[idx])
	}
}

func (n *Navigator) drawConfirm(text string) {
	n.Display.SetFont(display.FontLarge)
	n.printAt(0, 0, text)
	n.Display.SetFont(display.FontSmall)
	n.printAt(0, 20, "OK = yes")
	n.printAt(0, 32, "BACK = no")
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
