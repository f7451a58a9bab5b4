package tui

import "time"

type consumersView struct {
	consumers []Consumer
	cursor    int
}

func (v *consumersView) render(width, maxRows int, now time.Time) string {
	t := newTable(width,
		colDef{header: "CONSUMER", flex: true, min: 12},
		colDef{header: "STATUS"},
		colDef{header: "LAST HEARTBEAT"},
	)
	for _, c := range v.consumers {
		status := deadStyle.Render("down")
		if c.Alive {
			status = aliveStyle.Render("alive")
		}
		t.addRow(c.ID, status, relativeTime(c.LastHeartbeat, now))
	}
	return t.render(v.cursor, maxRows)
}

func (v *consumersView) clampCursor() {
	if v.cursor >= len(v.consumers) {
		v.cursor = len(v.consumers) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}
