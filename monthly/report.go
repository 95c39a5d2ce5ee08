package monthly

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aouyang1/go-caseload/calendar"
	"github.com/aouyang1/go-caseload/chart"
	"github.com/aouyang1/go-caseload/timedataset"
)

// Chart draws the monthly counts as bars over a contiguous month axis. Months without cases are
// left empty.
func Chart(counts []Count) (*chart.Chart, error) {
	td, err := timedataset.AsMonthly(Months(counts), Values(counts))
	if err != nil {
		return nil, fmt.Errorf("unable to place counts on a monthly axis, %w", err)
	}
	return chart.NewTimeChart("Monthly Caseload", "Month", "Total Cases", td.T).
		AddBar("Total Cases", td.Y), nil
}

// TablePrint writes every month with its distinct case count. When a calendar is given the
// observed holidays, business days and cases per business day are included.
func TablePrint(w io.Writer, counts []Count, cal *calendar.Calendar) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	header := "Month\tTotal Cases\t"
	if cal != nil {
		header += "Holidays\tWorkdays\tPer Workday\t"
	}
	if _, err := fmt.Fprintln(tbl, header); err != nil {
		return err
	}

	for _, c := range counts {
		line := fmt.Sprintf("%s\t%d\t", c.Month.Format("2006-01"), c.TotalCases)
		if cal != nil {
			days := cal.Workdays(c.Month)
			perDay := 0.0
			if days > 0 {
				perDay = float64(c.TotalCases) / float64(days)
			}
			line += fmt.Sprintf("%d\t%d\t%.2f\t", len(cal.Holidays(c.Month)), days, perDay)
		}
		if _, err := fmt.Fprintln(tbl, line); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
