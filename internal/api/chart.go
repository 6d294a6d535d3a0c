package api

import (
	"bytes"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"example.com/fitnesstracker/internal/domain"
)

// generateDailyChart plots counted minutes per day. Excluded entries still
// give their day a bar, at zero.
func generateDailyChart(totals []domain.DailyTotal, stats domain.Stats) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Activity Chart - Fitness Tracker",
			Theme:     "macarons",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Daily Activity",
			Subtitle: "Average " + formatNumber(round1(stats.AverageDailyActivity)) + " minutes per active day",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate: 45,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "Minutes",
			NameLocation: "middle",
			NameGap:      40,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type: "shadow",
			},
		}),
	)

	days := make([]string, 0, len(totals))
	items := make([]opts.BarData, 0, len(totals))
	for _, t := range totals {
		days = append(days, t.Date.String())
		items = append(items, opts.BarData{Value: t.Minutes})
	}
	bar.SetXAxis(days).AddSeries("Minutes", items)

	return bar
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}

func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListEntries(r.Context())
	if err != nil {
		h.write(w, r, serverError(err))
		return
	}

	var buf bytes.Buffer
	if err := generateDailyChart(domain.DailyTotals(list.Entries), list.Stats).Render(&buf); err != nil {
		h.write(w, r, serverError(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
