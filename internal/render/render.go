// Package render draws the dashboard to a terminal. It is a pure formatter:
// it takes a snapshot plus the current view state and writes text, with no
// state of its own.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yourorg/stableyield-sentinel/internal/classify"
	"github.com/yourorg/stableyield-sentinel/internal/model"
	"github.com/yourorg/stableyield-sentinel/internal/score"
	"github.com/yourorg/stableyield-sentinel/internal/view"
)

// Dashboard writes the full dashboard for one snapshot and view state.
func Dashboard(w io.Writer, pools []model.Pool, news []model.NewsItem, s view.State) {
	stats := view.ComputeStats(pools)
	visible := view.FilterSort(pools, s)
	page := view.Paginate(visible, s.Page)
	totalPages := view.TotalPages(len(visible))

	header(w, stats, len(pools))
	if s.ShowInfo {
		info(w)
	}
	tagBar(w, pools, s.Stable)

	switch s.Tab {
	case view.TabIntel:
		intel(w, news)
	default:
		poolTable(w, page, s.Sort)
		footer(w, s.Page, totalPages, len(visible))
		socialPulse(w, news)
	}
}

func header(w io.Writer, stats view.Stats, poolCount int) {
	fmt.Fprintln(w, "STABLEYIELD SENTINEL")
	fmt.Fprintf(w, "Pools: %d | Avg APY: %.2f%% | Top APY: %.2f%% (%s)\n\n",
		poolCount, stats.AvgAPY, stats.TopAPY, stats.TopProject)
}

// info prints the panel explaining where the numbers come from.
func info(w io.Writer) {
	fmt.Fprintln(w, "ABOUT")
	fmt.Fprintln(w, "  Pools: DeFiLlama yields API, stablecoin-only pools with TVL >= $10M.")
	fmt.Fprintln(w, "  News: CryptoPanic API via relay chain; offline mock data without an API key.")
	fmt.Fprintln(w, "  Safety: audit bonus + TVL depth bonus - yield-chasing penalty. Not financial advice.")
	fmt.Fprintln(w)
}

// tagBar prints the stablecoin tags ordered by aggregate TVL, marking the
// selected one.
func tagBar(w io.Writer, pools []model.Pool, selected string) {
	tags := classify.SortedTags(classify.TVLByCoin(pools))
	if len(tags) == 0 {
		return
	}
	parts := make([]string, 0, len(tags)+1)
	if selected == "" {
		parts = append(parts, "[ALL]")
	} else {
		parts = append(parts, "ALL")
	}
	for _, tag := range tags {
		if tag == selected {
			parts = append(parts, "["+tag+"]")
		} else {
			parts = append(parts, tag)
		}
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
	fmt.Fprintln(w)
}

func poolTable(w io.Writer, page []model.Pool, sort view.Sort) {
	if len(page) == 0 {
		fmt.Fprintln(w, "No pools match the current filters.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "PROJECT\tCHAIN\tPOOL\t%s\t%s\t%s\tRISK\t%s\n",
		sortHeading("APY", view.SortAPY, sort),
		sortHeading("30D", view.SortAPY30d, sort),
		sortHeading("TVL", view.SortTVL, sort),
		sortHeading("SAFETY", view.SortSafety, sort))
	for _, p := range page {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\t%.2f%%\t%s\t%s\t%.1f\n",
			p.Project, p.Chain, p.Symbol,
			p.APY, p.APYMean30d, p.FormatTVL(), p.Risk(), score.Safety(p))
	}
	tw.Flush()
}

// sortHeading marks the active sort column with its direction.
func sortHeading(label string, key view.SortKey, sort view.Sort) string {
	if sort.Key != key {
		return label
	}
	if sort.Dir == view.Asc {
		return label + " ^"
	}
	return label + " v"
}

func footer(w io.Writer, page, totalPages, matched int) {
	if totalPages == 0 {
		return
	}
	fmt.Fprintf(w, "\nP.%d / %d (%d pools)\n", page, totalPages, matched)
}

// socialPulse prints the capped social sidebar under the pool table.
func socialPulse(w io.Writer, items []model.NewsItem) {
	_, social := view.SplitNews(items)
	if len(social) == 0 {
		return
	}
	if len(social) > view.SocialPulseSize {
		social = social[:view.SocialPulseSize]
	}
	fmt.Fprintln(w, "\nSOCIAL PULSE")
	for _, item := range social {
		fmt.Fprintf(w, "  %s (%s)\n", item.Title, item.Source.Domain)
	}
}

// intel prints the full news feed for the intelligence tab.
func intel(w io.Writer, items []model.NewsItem) {
	fmt.Fprintln(w, "MARKET INTELLIGENCE")
	if len(items) == 0 {
		fmt.Fprintln(w, "  No news available.")
		return
	}
	news, social := view.SplitNews(items)
	for _, item := range news {
		fmt.Fprintf(w, "  [NEWS]   %s | %s | %s\n", item.PublishedAt, item.Source.Title, item.Title)
	}
	for _, item := range social {
		fmt.Fprintf(w, "  [SOCIAL] %s | %s | %s\n", item.PublishedAt, item.Source.Title, item.Title)
	}
}
