package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"audioconv/internal/deps"
	"audioconv/internal/timeutil"
	"audioconv/models"
	"audioconv/orchestrator"
)

// column is one table column: its header and how its cells align.
type column struct {
	header string
	align  text.Align
}

// renderTable draws rows under columns. Cells keep their own types so counts
// and sizes right-align without being formatted first; short rows are padded.
func renderTable(columns []column, rows []table.Row) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		for len(row) < len(columns) {
			row = append(row, "")
		}
		tw.AppendRow(row[:len(columns)])
	}

	return tw.Render()
}

var summaryColumns = []column{
	{"#", text.AlignRight},
	{"Input", text.AlignLeft},
	{"Outcome", text.AlignLeft},
	{"Output", text.AlignLeft},
	{"Size", text.AlignRight},
}

// renderSummary returns the per-task table followed by the tally and the
// final status line.
func renderSummary(res *orchestrator.BatchResult, elapsed time.Duration) string {
	outcomes := res.Outcomes()
	rows := make([]table.Row, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, table.Row{
			o.Index,
			o.InputPath,
			outcomeLabel(o),
			dashIfEmpty(o.OutputPath),
			outputSize(o),
		})
	}

	var b strings.Builder
	b.WriteString(renderTable(summaryColumns, rows))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d succeeded, %d failed, %d skipped, %d cancelled in %s\n",
		res.Count(models.OutcomeSucceeded),
		res.Count(models.OutcomeFailed),
		res.Count(models.OutcomeSkipped),
		res.Count(models.OutcomeCancelled),
		timeutil.FormatSeconds(elapsed.Seconds()))
	b.WriteString(res.Summary())
	b.WriteString("\n")
	return b.String()
}

func outcomeLabel(o models.TaskOutcome) string {
	if o.Kind == models.OutcomeFailed && o.ExitCode > 0 {
		return fmt.Sprintf("failed (exit %d)", o.ExitCode)
	}
	return string(o.Kind)
}

// outputSize reports the size of an output that exists on disk.
func outputSize(o models.TaskOutcome) string {
	if o.Kind != models.OutcomeSucceeded && o.Kind != models.OutcomeSkipped {
		return "-"
	}
	info, err := os.Stat(o.OutputPath)
	if err != nil || info.IsDir() {
		return "-"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func renderFormats(formats []models.Format) string {
	rows := make([]table.Row, 0, len(formats))
	for _, f := range formats {
		rows = append(rows, table.Row{f.ID, f.Label, f.Codec, "." + f.Extension, dashIfEmpty(f.DefaultBitrate)})
	}
	return renderTable([]column{
		{"Format", text.AlignLeft},
		{"Label", text.AlignLeft},
		{"Codec", text.AlignLeft},
		{"Extension", text.AlignLeft},
		{"Default bitrate", text.AlignRight},
	}, rows)
}

func renderDeps(statuses []deps.Status) string {
	rows := make([]table.Row, 0, len(statuses))
	for _, st := range statuses {
		state := "missing"
		if st.Available {
			state = "ok"
		}
		rows = append(rows, table.Row{st.Name, state, dashIfEmpty(st.Command), st.Detail})
	}
	return renderTable([]column{
		{"Binary", text.AlignLeft},
		{"Status", text.AlignLeft},
		{"Path", text.AlignLeft},
		{"Detail", text.AlignLeft},
	}, rows)
}

func dashIfEmpty(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
