// Package charts renders the monthly dashboard image sent by /resumo.
package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/granabot/grana-bot/internal/domain"
)

// Renderer builds dashboard PNGs from transaction history.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// MonthlyDashboard renders a daily income/expense time series with a running
// balance line for the 30 days before now. Returns nil bytes when there is
// nothing to plot.
func (r *Renderer) MonthlyDashboard(transactions []domain.Transaction, now time.Time) ([]byte, error) {
	from := midnight(now.AddDate(0, 0, -29))

	income := make(map[time.Time]float64)
	expense := make(map[time.Time]float64)
	for _, tx := range transactions {
		day := midnight(tx.Date)
		if day.Before(from) || day.After(now) {
			continue
		}
		if tx.Kind == "income" {
			income[day] += tx.Amount
		} else {
			expense[day] += tx.Amount
		}
	}

	if len(income) == 0 && len(expense) == 0 {
		return nil, nil
	}

	days := make([]time.Time, 0, 30)
	for d := from; !d.After(midnight(now)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	incomeValues := make([]float64, len(days))
	expenseValues := make([]float64, len(days))
	balanceValues := make([]float64, len(days))
	runningBalance := 0.0
	for i, day := range days {
		incomeValues[i] = income[day]
		expenseValues[i] = expense[day]
		runningBalance += incomeValues[i] - expenseValues[i]
		balanceValues[i] = runningBalance
	}

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("02/01"),
			Style:          chart.Style{FontSize: 12},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				return fmt.Sprintf("R$ %.0f", f)
			},
			Style: chart.Style{FontSize: 12},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Despesas",
				XValues: days,
				YValues: expenseValues,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Receitas",
				XValues: days,
				YValues: incomeValues,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Saldo",
				XValues: days,
				YValues: balanceValues,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2, StrokeDashArray: []float64{5, 5}},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}

	return buf.Bytes(), nil
}

// CategoryBars renders a horizontal comparison of expense totals by category
// name. Returns nil bytes when no expenses are present.
func (r *Renderer) CategoryBars(totals map[string]float64) ([]byte, error) {
	if len(totals) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return totals[names[i]] > totals[names[j]] })

	bars := make([]chart.Value, 0, len(names))
	for _, name := range names {
		bars = append(bars, chart.Value{Label: name, Value: totals[name]})
	}

	graph := chart.BarChart{
		Width:    1000,
		Height:   500,
		BarWidth: 60,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 40, Right: 40, Bottom: 40},
			FillColor: chart.ColorWhite,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category bars: %w", err)
	}

	return buf.Bytes(), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
