// Analytics report CLI: aggregates the visitor database over a time window,
// prints a tabular report and optionally exports the full report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/torqlabs/torq-news/internal/analytics"
	"github.com/torqlabs/torq-news/internal/cache"
)

func main() {
	days := flag.Int("days", 30, "report window in days")
	dbPath := flag.String("db", "analytics.db", "path to the analytics database")
	cachePath := flag.String("cache", "data_cache.json", "path to the content cache document")
	export := flag.String("export", "", "write the full report as JSON to this path")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := analytics.Open(*dbPath)
	if err != nil {
		slog.Error("Failed to open analytics database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer db.Close()

	// Content stats are optional: no cache file, no content block.
	doc, err := cache.NewStore(*cachePath).Load(ctx)
	if err != nil {
		doc = nil
	}

	report, err := analytics.NewAnalyzer(db).Report(ctx, *days, doc)
	if err != nil {
		slog.Error("Report aggregation failed", "error", err)
		os.Exit(1)
	}

	printReport(os.Stdout, report)

	if *export != "" {
		if err := exportJSON(*export, report); err != nil {
			slog.Error("Report export failed", "error", err, "path", *export)
			os.Exit(1)
		}
		fmt.Printf("\nReport exported to %s\n", *export)
	}
}

func printReport(out *os.File, r *analytics.Report) {
	fmt.Fprintf(out, "TORQ Tech News — analytics report (last %d days)\n", r.PeriodDays)
	fmt.Fprintf(out, "Generated at %s\n\n", r.GeneratedAt)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	v := r.VisitorStats
	fmt.Fprintln(w, "VISITORS")
	fmt.Fprintf(w, "  Unique visitors\t%d\n", v.UniqueVisitors)
	fmt.Fprintf(w, "  Page views\t%d\n", v.TotalPageViews)
	fmt.Fprintf(w, "  Active sessions\t%d\n", v.ActiveSessions)
	fmt.Fprintf(w, "  Avg session duration\t%.1fs\n", v.AvgSessionDuration)
	fmt.Fprintf(w, "  Bounce rate\t%.1f%%\n", v.BounceRatePercent)

	fmt.Fprintln(w, "\nTOP ARTICLES")
	for i, a := range r.TopArticles {
		fmt.Fprintf(w, "  %d.\t%s\t%d views\n", i+1, a.Title, a.Views)
	}

	fmt.Fprintln(w, "\nTRAFFIC SOURCES")
	for _, s := range r.TrafficSources {
		fmt.Fprintf(w, "  %s\t%d visits\n", s.Referrer, s.Visits)
	}

	fmt.Fprintln(w, "\nDEVICES")
	for _, device := range []string{"desktop", "mobile", "tablet"} {
		if stat, ok := r.DeviceBreakdown[device]; ok {
			fmt.Fprintf(w, "  %s\t%d\t%.1f%%\n", device, stat.Count, stat.Percentage)
		}
	}

	fmt.Fprintln(w, "\nBROWSERS")
	for _, b := range r.BrowserBreakdown {
		fmt.Fprintf(w, "  %s\t%d sessions\n", b.Browser, b.Sessions)
	}

	f := r.ConversionFunnel
	fmt.Fprintln(w, "\nCONVERSION FUNNEL")
	fmt.Fprintf(w, "  Homepage visits\t%d\n", f.HomepageVisits)
	fmt.Fprintf(w, "  Article views\t%d\t%.1f%% of homepage\n", f.ArticleViews, f.HomepageToArticleRate)
	fmt.Fprintf(w, "  Full scrolls\t%d\t%.1f%% of articles\n", f.FullScrolls, f.ArticleCompletionRate)
	fmt.Fprintf(w, "  External clicks\t%d\t%.1f%% of articles\n", f.ExternalClicks, f.ExternalClickRate)

	e := r.UserEngagement
	fmt.Fprintln(w, "\nENGAGEMENT")
	fmt.Fprintf(w, "  Avg scroll depth\t%.1f%%\n", e.AvgScrollDepthPercent)
	fmt.Fprintf(w, "  Avg time on page\t%.1fs (p50 %.1fs, p95 %.1fs)\n",
		e.AvgTimeOnPageSeconds, e.TimeOnPageP50, e.TimeOnPageP95)
	fmt.Fprintf(w, "  Total clicks\t%d\n", e.TotalClicks)

	if c := r.ContentStats; c != nil {
		fmt.Fprintln(w, "\nCONTENT")
		fmt.Fprintf(w, "  Articles cached\t%d (%d with full text)\n", c.TotalArticles, c.ArticlesWithFullText)
		fmt.Fprintf(w, "  Featured\t%s\n", c.FeaturedArticle)
		fmt.Fprintf(w, "  Sources used\t%s\n", strings.Join(c.SourcesUsed, ", "))
		fmt.Fprintf(w, "  Last update\t%s\n", c.LastUpdate)
	}

	if len(r.HourlyActivity) > 0 {
		fmt.Fprintln(w, "\nHOURLY ACTIVITY")
		for _, h := range r.HourlyActivity {
			fmt.Fprintf(w, "  %02d:00\t%s\t%d\n", h.Hour, bar(h.Visits, maxVisits(r.HourlyActivity)), h.Visits)
		}
	}

	w.Flush()
}

func maxVisits(buckets []analytics.HourBucket) int64 {
	var max int64
	for _, b := range buckets {
		if b.Visits > max {
			max = b.Visits
		}
	}
	return max
}

// bar renders a visit count as a fixed-scale ascii bar.
func bar(visits, max int64) string {
	if max == 0 {
		return ""
	}
	const width = 30
	n := int(visits * width / max)
	return strings.Repeat("#", n)
}

func exportJSON(path string, r *analytics.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
