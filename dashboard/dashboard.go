// Package dashboard renders an optional live termui view of a run in
// progress: a progress gauge, a scrolling table of found credentials,
// and a status line, in place of the plain scrolling progress bar.
package dashboard

import (
	"fmt"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

// Stats is one snapshot of run progress, pushed by the driver loop.
type Stats struct {
	Done    int
	Total   int
	Found   int
	Workers int
	Paused  bool
}

// Hit is one confirmed credential, appended to the table.
type Hit struct {
	User     string
	Password string
}

// Run initializes the terminal UI and blocks, redrawing as updates
// and hits arrive, until the user quits (q or Ctrl-C) or both
// channels are closed.
func Run(updates <-chan Stats, hits <-chan Hit) error {
	if err := ui.Init(); err != nil {
		return err
	}
	defer ui.Close()

	gauge := widgets.NewGauge()
	gauge.Title = "progress"
	gauge.SetRect(0, 0, 80, 3)
	gauge.BarColor = ui.ColorGreen

	status := widgets.NewParagraph()
	status.Title = "status"
	status.SetRect(0, 3, 80, 6)

	table := widgets.NewTable()
	table.Title = "found credentials"
	table.SetRect(0, 6, 80, 20)
	table.Rows = [][]string{{"user", "password"}}
	table.RowStyles = map[int]ui.Style{0: ui.NewStyle(ui.ColorWhite, ui.ColorClear, ui.ModifierBold)}

	render := func() {
		ui.Render(gauge, status, table)
	}
	render()

	uiEvents := ui.PollEvents()
	for {
		select {
		case e, ok := <-uiEvents:
			if !ok {
				return nil
			}
			switch e.ID {
			case "q", "<C-c>":
				return nil
			}

		case s, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if s.Total > 0 {
				gauge.Percent = s.Done * 100 / s.Total
			}
			state := "running"
			if s.Paused {
				state = "paused"
			}
			status.Text = fmt.Sprintf("%s: %d/%d attempts, %d found, %d workers",
				state, s.Done, s.Total, s.Found, s.Workers)
			render()

		case h, ok := <-hits:
			if !ok {
				hits = nil
				continue
			}
			table.Rows = append(table.Rows, []string{h.User, h.Password})
			render()
		}

		if updates == nil && hits == nil {
			return nil
		}
	}
}
