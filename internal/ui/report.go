package ui

import (
	"fmt"
	"strings"
	"time"

	"matbench/internal/benchmark"
	"matbench/internal/db"
	"matbench/internal/utils"
)

const ruleWidth = 56

func rule() string {
	return mutedStyle.Render(strings.Repeat("-", ruleWidth))
}

func sizeLabel(n int) string {
	return fmt.Sprintf("%dx%d", n, n)
}

// Banner describes the benchmark about to run.
func Banner(sizes []int, runs int, output string) string {
	labels := make([]string, len(sizes))
	for i, n := range sizes {
		labels[i] = sizeLabel(n)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Matrix Multiplication Benchmark") + "\n")
	b.WriteString(fmt.Sprintf("Sizes:  %s\n", strings.Join(labels, ", ")))
	b.WriteString(fmt.Sprintf("Runs:   %d per size\n", runs))
	b.WriteString(fmt.Sprintf("Output: %s\n", output))
	return b.String()
}

// RenderAverages prints the per-size averages of a finished run.
func RenderAverages(averages []benchmark.Average) string {
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Average Results") + "\n")
	if len(averages) == 0 {
		b.WriteString("No samples recorded.\n")
		return b.String()
	}

	b.WriteString(columnStyle.Render(fmt.Sprintf("%-12s %-6s %-16s %-16s", "SIZE", "RUNS", "AVG TIME (s)", "AVG MEMORY (MB)")) + "\n")
	b.WriteString(rule() + "\n")
	for _, a := range averages {
		b.WriteString(fmt.Sprintf("%-12s %-6d %-16s %-16s\n",
			sizeLabel(a.MatrixSize),
			a.Runs,
			benchmark.FormatValue(a.AvgTimeSeconds),
			benchmark.FormatValue(a.AvgRealMemoryMB),
		))
	}
	return b.String()
}

// RenderComparison prints the change of each size against a previous run.
// Time increases above threshold percent are highlighted as regressions.
func RenderComparison(prevID int64, comps []benchmark.Comparison, threshold float64) string {
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render(fmt.Sprintf("Compared to run #%d", prevID)) + "\n")
	if len(comps) == 0 {
		b.WriteString("No matrix sizes in common.\n")
		return b.String()
	}

	b.WriteString(columnStyle.Render(fmt.Sprintf("%-12s %-14s %-14s %-10s %-10s", "SIZE", "PREV TIME (s)", "CURR TIME (s)", "TIME", "MEMORY")) + "\n")
	b.WriteString(rule() + "\n")

	regressions := 0
	for _, c := range comps {
		timeDiff := fmt.Sprintf("%+.2f%%", c.TimeDiff)
		switch {
		case c.Regressed(threshold):
			regressions++
			timeDiff = regressionStyle.Render(fmt.Sprintf("%-10s", timeDiff))
		case c.TimeDiff < 0:
			timeDiff = improvementStyle.Render(fmt.Sprintf("%-10s", timeDiff))
		default:
			timeDiff = fmt.Sprintf("%-10s", timeDiff)
		}
		b.WriteString(fmt.Sprintf("%-12s %-14s %-14s %s %-10s\n",
			sizeLabel(c.MatrixSize),
			benchmark.FormatValue(c.Prev.AvgTimeSeconds),
			benchmark.FormatValue(c.Curr.AvgTimeSeconds),
			timeDiff,
			fmt.Sprintf("%+.2f%%", c.MemoryDiff),
		))
	}

	if regressions > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d size(s) slower by more than %.1f%%", regressions, threshold)) + "\n")
	} else {
		b.WriteString(successStyle.Render("No regressions") + "\n")
	}
	return b.String()
}

// RenderRuns lists stored benchmark runs. Ages are relative to now.
func RenderRuns(runs []db.RunRecord, now time.Time) string {
	if len(runs) == 0 {
		return "No benchmark runs found.\n"
	}

	var b strings.Builder
	b.WriteString(columnStyle.Render(fmt.Sprintf("%-6s %-10s %-20s %-10s %-10s %-5s %s", "ID", "STATUS", "STARTED", "AGE", "DURATION", "RUNS", "SIZES")) + "\n")
	b.WriteString(rule() + "\n")
	for _, r := range runs {
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		sizes := make([]string, len(r.Sizes))
		for i, n := range r.Sizes {
			sizes[i] = fmt.Sprint(n)
		}
		b.WriteString(fmt.Sprintf("%-6d %-10s %-20s %-10s %-10s %-5d %s\n",
			r.ID,
			r.Status,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			utils.FormatAge(r.StartedAt, now),
			duration,
			r.Runs,
			strings.Join(sizes, ","),
		))
	}
	return b.String()
}

// RenderRun prints the details of one stored run and its samples.
func RenderRun(run db.RunRecord, samples []benchmark.Sample) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Run #%d", run.ID)) + "\n")
	b.WriteString(fmt.Sprintf("Status:   %s\n", run.Status))
	b.WriteString(fmt.Sprintf("Host:     %s\n", run.Hostname))
	b.WriteString(fmt.Sprintf("Started:  %s\n", run.StartedAt.Local().Format(time.RFC3339)))
	if run.FinishedAt != nil {
		b.WriteString(fmt.Sprintf("Finished: %s\n", run.FinishedAt.Local().Format(time.RFC3339)))
	}
	b.WriteString(fmt.Sprintf("Output:   %s\n", run.Output))

	b.WriteString("\n" + columnStyle.Render(fmt.Sprintf("%-12s %-6s %-16s %-16s", "SIZE", "RUN", "TIME (s)", "MEMORY (MB)")) + "\n")
	b.WriteString(rule() + "\n")
	for _, s := range samples {
		b.WriteString(fmt.Sprintf("%-12s %-6d %-16s %-16s\n",
			sizeLabel(s.MatrixSize),
			s.Run,
			benchmark.FormatValue(s.TimeSeconds),
			benchmark.FormatValue(s.RealMemoryMB),
		))
	}

	result := benchmark.NewResult()
	for _, s := range samples {
		result.Add(s)
	}
	b.WriteString(RenderAverages(result.Averages()))
	return b.String()
}
