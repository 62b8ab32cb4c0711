package controller

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "mutafuzz.dev/pkg/mutafuzz/internal/model"
)

// maxTokenColumn bounds how much of a token is shown in a table cell.
const maxTokenColumn = 40

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, option := range options {
		option(&s.config)
	}

	slog.Debug("Starting UI", "mode", s.config.mode)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayFuzzStart prints the run header.
func (s *SimpleUI) DisplayFuzzStart(ctx context.Context, info FuzzInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Fuzzing %s with %d instance(s) (run %s)\n", strings.Join(info.Target, " "), info.Instances, info.RunID)
	s.printf("Seeds: %d, tokens: %d\n", info.Seeds, info.Tokens)
	s.printf("Mutator: %s\n", info.Mutator)
}

// DisplayInstanceDone prints a one-line report when an instance stops.
func (s *SimpleUI) DisplayInstanceDone(ctx context.Context, instance int, snapshot m.StatsSnapshot) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Instance %d done: %d execs, %d corpus, %d solutions\n",
		instance, snapshot.Executions, snapshot.CorpusSize, snapshot.Objectives)
}

// DisplaySummary prints per-instance counters and their total.
func (s *SimpleUI) DisplaySummary(ctx context.Context, snapshots []m.StatsSnapshot) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(snapshots))
}

func renderSummaryTable(snapshots []m.StatsSnapshot) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Instance", "Execs", "Exec/s", "Corpus", "Solutions", "Skipped"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	var total m.StatsSnapshot

	for i, snap := range snapshots {
		table.Append(summaryRow(strconv.Itoa(i), snap))

		total = total.Add(snap)
	}

	table.SetFooter(summaryRow("Total", total))
	table.Render()

	return tableBuffer.String()
}

func summaryRow(label string, snap m.StatsSnapshot) []string {
	return []string{
		label,
		strconv.FormatUint(snap.Executions, 10),
		fmt.Sprintf("%.1f", snap.ExecsPerSecond()),
		strconv.FormatUint(snap.CorpusSize, 10),
		strconv.FormatUint(snap.Objectives, 10),
		strconv.FormatUint(snap.Skipped, 10),
	}
}

// DisplaySolutions lists the solutions found during the run.
func (s *SimpleUI) DisplaySolutions(ctx context.Context, records []m.SolutionRecord) {
	if err := ctx.Err(); err != nil {
		return
	}

	if len(records) == 0 {
		s.printf("No solutions found\n")
		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Name", "Exit", "Code", "Instance", "Execs", "Found"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, record := range records {
		table.Append([]string{
			record.Name,
			record.ExitKind,
			strconv.Itoa(record.ExitCode),
			strconv.Itoa(record.Instance),
			strconv.FormatUint(record.Executions, 10),
			record.FoundAt.Format(time.TimeOnly),
		})
	}

	table.Render()
	s.printf("\nSolutions:\n%s", tableBuffer.String())
}

// DisplayTokens prints the tokens of a file, their codes and the decoded text.
func (s *SimpleUI) DisplayTokens(ctx context.Context, report TokenizeReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"#", "Token", "Code"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for i, token := range report.Tokens {
		code := ""
		if i < len(report.Codes) {
			code = strconv.FormatUint(uint64(report.Codes[i]), 10)
		}

		table.Append([]string{strconv.Itoa(i), displayToken(token), code})
	}

	table.SetFooter([]string{"", fmt.Sprintf("Total Tokens %d", len(report.Tokens)), ""})
	table.Render()

	s.printf("%s\n%s", report.Path, tableBuffer.String())
	s.printf("\nDecoded:\n%s\n", report.Decoded)

	if report.Diff != "" {
		s.printf("\nDiff:\n%s", report.Diff)
	}

	return nil
}

func displayToken(token string) string {
	quoted := strconv.Quote(token)
	if len(quoted) > maxTokenColumn {
		quoted = quoted[:maxTokenColumn-3] + "..."
	}

	return quoted
}

// DisplayCorpus lists the testcases of an on-disk corpus.
func (s *SimpleUI) DisplayCorpus(ctx context.Context, dir string, entries []CorpusEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Name", "Size", "Execs", "Parent", "Mutations"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, entry := range entries {
		table.Append([]string{
			entry.Name,
			strconv.Itoa(entry.Size),
			strconv.FormatUint(entry.Executions, 10),
			entry.Parent,
			strings.Join(entry.Mutations, ", "),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Testcases %d", len(entries)), "", "", "", ""})
	table.Render()

	s.printf("%s\n%s", dir, tableBuffer.String())

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
