// Package report renders the desk history and live positions as markdown,
// and pretty-prints that markdown in the terminal with glamour.
package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"

	"github.com/rovshanmuradov/pnl-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/pnl-dashboard/internal/money"
	"github.com/rovshanmuradov/pnl-dashboard/internal/series"
	"github.com/rovshanmuradov/pnl-dashboard/internal/simulator"
)

type deskLine struct {
	Desk, Last, Total, Min, Max string
}

type dayLine struct {
	Date   string
	Values []string
}

type rowLine struct {
	Symbol, Trade, Market, Quantity, PnL, Class string
}

type view struct {
	Title    string
	Subtitle string
	Desks    []string
	Summary  []deskLine
	Days     []dayLine
	Rows     []rowLine
	Total    string
}

const reportTemplate = `# {{ .Title }}

{{ .Subtitle }}

## Desk Summary

| Desk | Last | Total | Min | Max |
|:---|---:|---:|---:|---:|
{{- range .Summary }}
| {{ .Desk }} | {{ .Last }} | {{ .Total }} | {{ .Min }} | {{ .Max }} |
{{- end }}

## Historical Daily PnL

| Date |{{ range .Desks }} {{ . }} |{{ end }}
|:---|{{ range .Desks }}---:|{{ end }}
{{- range .Days }}
| {{ .Date }} |{{ range .Values }} {{ . }} |{{ end }}
{{- end }}
{{- if .Rows }}

## Realtime PnL

| Symbol | Trade Price | Market Price | Quantity | Profit/Loss |
|:---|---:|---:|---:|---:|
{{- range .Rows }}
| {{ .Symbol }} | {{ .Trade }} | {{ .Market }} | {{ .Quantity }} | {{ .PnL }}{{ .Class }} |
{{- end }}
| **Total** | | | | **{{ .Total }}** |
{{- end }}
`

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// Markdown renders the series, and the rows of snap when it has any.
func Markdown(s series.Series, snap *dashboard.Snapshot, f *money.Formatter) (string, error) {
	v := view{
		Title:    "PnL Dashboard",
		Subtitle: "Equity desks performance overview",
		Desks:    s.Desks,
	}

	for _, desk := range s.Desks {
		lo, hi := s.Range(desk)
		v.Summary = append(v.Summary, deskLine{
			Desk:  desk,
			Last:  f.Amount(s.Last(desk)),
			Total: f.Amount(s.Total(desk)),
			Min:   f.Amount(lo),
			Max:   f.Amount(hi),
		})
	}

	for _, p := range s.Points {
		line := dayLine{Date: p.Date}
		for _, desk := range s.Desks {
			line.Values = append(line.Values, f.Amount(p.Values[desk]))
		}
		v.Days = append(v.Days, line)
	}

	if snap != nil && len(snap.Rows) > 0 {
		for _, r := range snap.Visible(10) {
			line := rowLine{
				Symbol:   r.Symbol,
				Trade:    f.Amount(r.TradePrice),
				Market:   f.Amount(r.MarketPrice),
				Quantity: f.Quantity(r.Quantity),
				PnL:      f.Amount(r.ProfitOrLoss),
			}
			if dir, ok := snap.FlashFor(r.ID); ok {
				line.Class = flashMark(dir)
			}
			v.Rows = append(v.Rows, line)
		}
		v.Total = f.Currency(snap.TotalPnL())
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return b.String(), nil
}

func flashMark(dir simulator.Direction) string {
	if dir == simulator.Pos {
		return " ▲"
	}
	return " ▼"
}

// Styles accepted by Render.
var Styles = []string{"auto", "dark", "light", "notty", "ascii"}

// Render pretty-prints markdown for a terminal of the given width.
func Render(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case "dark", "light", "notty", "ascii":
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		return "", fmt.Errorf("unknown style %q (want one of %s)", style, strings.Join(Styles, ", "))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
