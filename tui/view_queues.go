package tui

import (
	"fmt"
	"time"
)

type queuesView struct {
	queues []Queue
	cursor int
}

func (v *queuesView) render(width, maxRows int, _ time.Time) string {
	t := newTable(width,
		colDef{header: "QUEUE", flex: true, min: 10},
		colDef{header: "SOURCE"},
		colDef{header: "PROCESSING"},
		colDef{header: "UNACK"},
		colDef{header: "TOTAL"},
	)
	for _, q := range v.queues {
		unack := fmt.Sprintf("%d", q.Unack)
		if q.Unack > 0 {
			unack = unackStyle.Render(unack)
		}
		t.addRow(
			q.Name,
			sourceStyle.Render(fmt.Sprintf("%d", q.Source)),
			processingStyle.Render(fmt.Sprintf("%d", q.Processing)),
			unack,
			fmt.Sprintf("%d", q.Total),
		)
	}
	return t.render(v.cursor, maxRows)
}

func (v *queuesView) clampCursor() {
	if v.cursor >= len(v.queues) {
		v.cursor = len(v.queues) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}
