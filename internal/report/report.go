// Package report renders an analysis result to Markdown or HTML.
//
// The generator is a pure consumer of the analysis triple: it never
// mutates core state, and it omits empty sections rather than erroring
// on them.
package report

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tradeguard/internal/errors"
	"tradeguard/internal/explain"
	"tradeguard/internal/models"
)

// Format selects the rendering target.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

const timestampLayout = "2006-01-02 15:04:05"

// Render renders the result in the requested format.
func Render(format Format, result models.AnalysisResult, exp *explain.Explanation, generatedAt time.Time) (string, error) {
	switch format {
	case FormatMarkdown:
		return RenderMarkdown(result, exp, generatedAt), nil
	case FormatHTML:
		return RenderHTML(result, exp, generatedAt), nil
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
}

// RenderMarkdown renders the full Markdown report.
func RenderMarkdown(result models.AnalysisResult, exp *explain.Explanation, generatedAt time.Time) string {
	var b strings.Builder
	score := result.Score

	b.WriteString("# TradeGuard Risk Health Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format(timestampLayout))

	b.WriteString("## Scorecard\n\n")
	fmt.Fprintf(&b, "- **Overall Score**: %.1f/100\n", score.Score)
	fmt.Fprintf(&b, "- **Grade**: %s\n", score.Grade)
	fmt.Fprintf(&b, "- **Total Risks**: %d\n", score.TotalRisks)
	fmt.Fprintf(&b, "- **Improvement Potential**: %d%%\n\n", score.ImprovementPotential)

	b.WriteString("## Metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	for _, row := range metricRows(result.Metrics) {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
	}
	b.WriteString("\n")

	if len(score.Breakdown) > 0 {
		b.WriteString("## Risk Findings\n\n")
		b.WriteString("| Risk | Severity | Weight | Contribution |\n|---|---|---|---|\n")
		for _, entry := range score.Breakdown {
			fmt.Fprintf(&b, "| %s | %.1f | %.1f | %.1f |\n",
				entry.Risk, entry.Severity, entry.Weight, entry.Contribution)
		}
		b.WriteString("\n")
		for _, name := range result.DetectedRisks {
			if finding, ok := result.RiskDetails[name]; ok {
				fmt.Fprintf(&b, "- **%s**: %s\n", name, finding.Message)
			}
		}
		b.WriteString("\n")
	}

	if len(score.TopRisks) > 0 {
		b.WriteString("## Priorities\n\n")
		for i, name := range score.TopRisks {
			fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		}
		fmt.Fprintf(&b, "\n%s\n\n", score.Recommendation)
	}

	if exp != nil && len(exp.RiskExplanations) > 0 {
		b.WriteString("## Explanations\n\n")
		if exp.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", exp.Summary)
		}
		for _, name := range result.DetectedRisks {
			if text, ok := exp.RiskExplanations[name]; ok {
				fmt.Fprintf(&b, "### %s\n\n%s\n\n", name, text)
			}
		}
	}

	b.WriteString("## Disclaimer\n\n")
	b.WriteString("This report analyzes historical trading patterns for educational purposes only. ")
	b.WriteString("It is not trading advice, a prediction, or a signal. Trading involves risk of loss.\n")

	return b.String()
}

// RenderHTML renders a standalone HTML document.
func RenderHTML(result models.AnalysisResult, exp *explain.Explanation, generatedAt time.Time) string {
	var b strings.Builder
	score := result.Score

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>TradeGuard Risk Health Report</title>\n</head>\n<body>\n")
	b.WriteString("<h1>TradeGuard Risk Health Report</h1>\n")
	fmt.Fprintf(&b, "<p>Generated: %s</p>\n", generatedAt.Format(timestampLayout))

	fmt.Fprintf(&b, "<h2>Scorecard</h2>\n<ul>\n")
	fmt.Fprintf(&b, "<li>Overall Score: <strong style=\"color:%s\">%.1f/100</strong></li>\n",
		html.EscapeString(score.GradeColor), score.Score)
	fmt.Fprintf(&b, "<li>Grade: %s</li>\n", html.EscapeString(score.Grade))
	fmt.Fprintf(&b, "<li>Total Risks: %d</li>\n", score.TotalRisks)
	fmt.Fprintf(&b, "<li>Improvement Potential: %d%%</li>\n</ul>\n", score.ImprovementPotential)

	b.WriteString("<h2>Metrics</h2>\n<table>\n<tr><th>Metric</th><th>Value</th></tr>\n")
	for _, row := range metricRows(result.Metrics) {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(row[0]), html.EscapeString(row[1]))
	}
	b.WriteString("</table>\n")

	if len(score.Breakdown) > 0 {
		b.WriteString("<h2>Risk Findings</h2>\n<table>\n")
		b.WriteString("<tr><th>Risk</th><th>Severity</th><th>Weight</th><th>Contribution</th></tr>\n")
		for _, entry := range score.Breakdown {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%.1f</td><td>%.1f</td><td>%.1f</td></tr>\n",
				html.EscapeString(entry.Risk), entry.Severity, entry.Weight, entry.Contribution)
		}
		b.WriteString("</table>\n<ul>\n")
		for _, name := range result.DetectedRisks {
			if finding, ok := result.RiskDetails[name]; ok {
				fmt.Fprintf(&b, "<li><strong>%s</strong>: %s</li>\n",
					html.EscapeString(name), html.EscapeString(finding.Message))
			}
		}
		b.WriteString("</ul>\n")
	}

	if len(score.TopRisks) > 0 {
		b.WriteString("<h2>Priorities</h2>\n<ol>\n")
		for _, name := range score.TopRisks {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(name))
		}
		fmt.Fprintf(&b, "</ol>\n<p>%s</p>\n", html.EscapeString(score.Recommendation))
	}

	if exp != nil && len(exp.RiskExplanations) > 0 {
		b.WriteString("<h2>Explanations</h2>\n")
		if exp.Summary != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(exp.Summary))
		}
		for _, name := range result.DetectedRisks {
			if text, ok := exp.RiskExplanations[name]; ok {
				fmt.Fprintf(&b, "<h3>%s</h3>\n<p>%s</p>\n",
					html.EscapeString(name), html.EscapeString(text))
			}
		}
	}

	b.WriteString("<h2>Disclaimer</h2>\n")
	b.WriteString("<p>This report analyzes historical trading patterns for educational purposes only. ")
	b.WriteString("It is not trading advice, a prediction, or a signal. Trading involves risk of loss.</p>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

func metricRows(m models.Metrics) [][2]string {
	return [][2]string{
		{"Total Trades", strconv.Itoa(m.TotalTrades)},
		{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRate)},
		{"Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor)},
		{"Net Profit", fmt.Sprintf("%.2f", m.NetProfit)},
		{"Avg Position Size", fmt.Sprintf("%.2f%%", m.AvgPositionSizePct)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdownPct)},
		{"Risk:Reward Ratio", fmt.Sprintf("%.2f", m.RiskRewardRatio)},
		{"Stop-Loss Usage", fmt.Sprintf("%.1f%%", m.SLUsageRate)},
	}
}

// Summary is the numeric core recovered from a rendered report.
type Summary struct {
	Score      float64
	Grade      string
	TotalRisks int
}

var (
	scoreRe = regexp.MustCompile(`\*\*Overall Score\*\*: ([0-9.]+)/100`)
	gradeRe = regexp.MustCompile(`\*\*Grade\*\*: ([A-F])`)
	totalRe = regexp.MustCompile(`\*\*Total Risks\*\*: ([0-9]+)`)
)

// ParseSummary recovers score, grade and total risks from a Markdown
// report. Rendering then parsing reproduces the numeric fields exactly.
func ParseSummary(markdown string) (*Summary, error) {
	scoreMatch := scoreRe.FindStringSubmatch(markdown)
	gradeMatch := gradeRe.FindStringSubmatch(markdown)
	totalMatch := totalRe.FindStringSubmatch(markdown)
	if scoreMatch == nil || gradeMatch == nil || totalMatch == nil {
		return nil, errors.NewDataError("report", "markdown", "scorecard section not found", nil)
	}

	score, err := strconv.ParseFloat(scoreMatch[1], 64)
	if err != nil {
		return nil, errors.NewDataError("report", "markdown", "unparsable score", err)
	}
	total, err := strconv.Atoi(totalMatch[1])
	if err != nil {
		return nil, errors.NewDataError("report", "markdown", "unparsable risk count", err)
	}

	return &Summary{Score: score, Grade: gradeMatch[1], TotalRisks: total}, nil
}
