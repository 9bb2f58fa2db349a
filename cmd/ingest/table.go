package main

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/heartmarshall/anime-ingest/internal/app/ingest"
	"github.com/heartmarshall/anime-ingest/internal/normalize"
)

// renderSummary formats a run result as two tables: totals and rejections
// per cause, most frequent first.
func renderSummary(res ingest.Result) string {
	totals := newTable("Metric", "Count")
	totals.AppendRows([]table.Row{
		{"Fetched", res.Fetched},
		{"Accepted", res.Accepted},
		{"Rejected", res.Rejected},
		{"Tag links", res.TagLinks},
		{"Pages", res.Pages},
		{"Failed pages", res.FailedPages},
		{"Rate limited", res.RateLimited},
	})
	if res.Applied != nil {
		totals.AppendRow(table.Row{"Applied anime", res.Applied.Anime})
		totals.AppendRow(table.Row{"Applied tag links", res.Applied.TagLinks})
	}

	var b strings.Builder
	b.WriteString(totals.Render())

	if len(res.ByCause) > 0 {
		causes := newTable("Rejection cause", "Count")
		for _, c := range sortedCauses(res.ByCause) {
			causes.AppendRow(table.Row{string(c.rule), strconv.Itoa(c.count)})
		}
		b.WriteString("\n")
		b.WriteString(causes.Render())
	}
	return b.String()
}

type causeCount struct {
	rule  normalize.Rule
	count int
}

func sortedCauses(byCause map[normalize.Rule]int) []causeCount {
	out := make([]causeCount, 0, len(byCause))
	for r, n := range byCause {
		out = append(out, causeCount{rule: r, count: n})
	}
	slices.SortFunc(out, func(a, b causeCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.rule, b.rule)
	})
	return out
}

func newTable(headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw
}
