// Package report renders insight summaries as markdown and HTML
// documents for the report tool and the export CLI.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ringlab/domain/core"
	"ringlab/domain/insight"
)

const title = "Ring Health Report"

// Markdown renders one HealthInsights summary as a markdown document.
// Start and end bound the requested range; zero days drop the period line.
func Markdown(ins *insight.HealthInsights, start, end core.Day) string {
	var b strings.Builder

	b.WriteString("# " + title + "\n\n")
	if !start.IsZero() && !end.IsZero() {
		b.WriteString(fmt.Sprintf("**Analysis Period:** %s to %s\n", start, end))
	}
	b.WriteString(fmt.Sprintf("**Days with data:** %d\n\n", ins.Days))

	if ins.Days == 0 {
		b.WriteString("No records in the requested range.\n")
		return b.String()
	}

	writeCategory(&b, "Sleep", ins.Sleep)
	writeCategory(&b, "Readiness", ins.Readiness)
	writeCategory(&b, "Activity", ins.Activity)
	writeStress(&b, ins.Stress)
	writeCorrelations(&b, ins.Correlations)
	writeRecommendations(&b, ins.Recommendations)

	return b.String()
}

// HTML converts a markdown report into a standalone HTML page.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

func writeCategory(b *strings.Builder, name string, c *insight.CategoryInsight) {
	if c == nil {
		return
	}
	b.WriteString("## " + name + "\n")
	b.WriteString(fmt.Sprintf("- **Average Score:** %.1f (%s trend)\n", c.Average, c.Trend))
	if c.BestDay != nil {
		b.WriteString(fmt.Sprintf("- **Best Day:** %s\n", *c.BestDay))
	}
	if c.WorstDay != nil {
		b.WriteString(fmt.Sprintf("- **Worst Day:** %s\n", *c.WorstDay))
	}
	if c.Consistency != nil {
		b.WriteString(fmt.Sprintf("- **Consistency:** %.0f of 100 (higher is steadier)\n", *c.Consistency))
	}
	for _, line := range c.Insights {
		b.WriteString("- " + line + "\n")
	}
	b.WriteString("\n")
}

func writeStress(b *strings.Builder, s *insight.StressInsight) {
	if s == nil {
		return
	}
	b.WriteString("## Stress\n")
	b.WriteString(fmt.Sprintf("- **Stressful Days:** %d\n", s.StressedDays))
	b.WriteString(fmt.Sprintf("- **Restored Days:** %d\n", s.RestoredDays))
	b.WriteString(fmt.Sprintf("- **Avg Stress High:** %.1f min/day\n", s.AvgStressHighMin))
	b.WriteString(fmt.Sprintf("- **Avg Recovery High:** %.1f min/day\n", s.AvgRecoveryHighMin))
	b.WriteString(fmt.Sprintf("- **Recovery Trend:** %s\n", s.Trend))
	for _, line := range s.Insights {
		b.WriteString("- " + line + "\n")
	}
	b.WriteString("\n")
}

func writeCorrelations(b *strings.Builder, cs []insight.MetricCorrelation) {
	if len(cs) == 0 {
		return
	}
	b.WriteString("## Cross-Metric Correlations\n")
	for _, c := range cs {
		if c.R != nil {
			b.WriteString(fmt.Sprintf("- **%s:** r = %.2f (%d shared days)\n", c.Name, *c.R, c.N))
		} else {
			b.WriteString(fmt.Sprintf("- **%s:** not enough shared days (n=%d)\n", c.Name, c.N))
		}
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, recs []insight.Recommendation) {
	b.WriteString("## Recommendations\n")
	if len(recs) == 0 {
		b.WriteString("No recommendations triggered.\n")
		return
	}
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("- **[%s]** %s\n", r.Priority, r.Message))
		for _, step := range r.Protocol {
			b.WriteString("  - " + step + "\n")
		}
	}
}
