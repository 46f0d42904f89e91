package output

import (
	"fmt"
	"hours/internal/timeutil"
	"hours/worklog"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

var entryHeaders = []string{"Id", "Client", "Day", "Project", "Task", "Hours", "Amount"}

// RenderEntries prints entries as a table followed by a total row.
func RenderEntries(w io.Writer, entries []worklog.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	writeRow(tw, entryHeaders...)
	for _, entry := range entries {
		writeRow(tw,
			strconv.FormatInt(entry.ID, 10),
			entry.Client.Name,
			timeutil.FormatDay(entry.Day),
			entry.Project,
			entry.Task,
			FormatHours(entry.Hours),
			FormatMoney(entry.Client.Currency, entry.Amount()),
		)
	}

	summary := Summarize(entries)
	writeRow(tw, separators(len(entryHeaders))...)
	writeRow(tw, "", "", "", "", "Total", FormatHours(summary.Hours), summary.FormatAmount())

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render entries: %w", err)
	}
	return nil
}

func RenderClients(w io.Writer, clients []worklog.Client) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	writeRow(tw, "Name", "Rate", "Currency")
	for _, client := range clients {
		writeRow(tw, client.Name, formatNumber(client.Rate), client.Currency)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render clients: %w", err)
	}
	return nil
}

func writeRow(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func separators(n int) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = "---"
	}
	return cells
}
