// ABOUTME: Terminal chart renderers built on ntcharts and lipgloss.
// ABOUTME: Each renderer returns a string ready to print, or a placeholder when empty.
package charts

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/healthdash/internal/models"
)

// MaxBars caps how many days a bar chart shows.
const MaxBars = 14

var (
	colorGood    = lipgloss.Color("42")
	colorOK      = lipgloss.Color("214")
	colorBad     = lipgloss.Color("196")
	colorNeutral = lipgloss.Color("69")
	colorSubtle  = lipgloss.Color("241")

	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorSubtle)
)

// NoData is shown in place of a chart without readings.
const NoData = "No data to chart"

func style(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func titled(title, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body)
}

func lastN(points []Point, n int) []Point {
	if len(points) > n {
		return points[len(points)-n:]
	}
	return points
}

func dayLabel(date string) string {
	// YYYY-MM-DD -> MM-DD
	if len(date) == len(models.DateLayout) {
		return date[5:]
	}
	return date
}

func bars(points []Point, width, height int, colorFor func(float64) lipgloss.Color) string {
	chart := barchart.New(width, height)
	var data []barchart.BarData
	for _, p := range points {
		data = append(data, barchart.BarData{
			Label: dayLabel(p.Date),
			Values: []barchart.BarValue{{
				Name:  p.Date,
				Value: p.Value,
				Style: style(colorFor(p.Value)),
			}},
		})
	}
	chart.PushAll(data)
	chart.Draw()
	return chart.View()
}

// Weight renders the weight readings as a sparkline with the rolling mean
// and the fitted trend summarized underneath.
func Weight(s Series, width, height int) string {
	if len(s.Weight) == 0 {
		return titled("Weight", mutedStyle.Render(NoData))
	}

	sl := sparkline.New(width, height)
	sl.PushAll(values(s.Weight))
	sl.Draw()

	last := s.Weight[len(s.Weight)-1]
	lines := []string{
		sl.View(),
		fmt.Sprintf("latest %.1f kg (%s)", last.Value, last.Date),
	}
	if n := len(s.WeightRolling); n > 0 {
		lines = append(lines, fmt.Sprintf("%d-day avg %.1f kg", RollingWindow, s.WeightRolling[n-1].Value))
	}
	if s.WeightTrend != nil {
		dir, c := "flat", colorNeutral
		switch {
		case s.WeightTrend.Slope > 0.01:
			dir, c = "rising", colorOK
		case s.WeightTrend.Slope < -0.01:
			dir, c = "falling", colorGood
		}
		lines = append(lines, style(c).Render(fmt.Sprintf("trend %s (%+.2f kg per reading)", dir, s.WeightTrend.Slope)))
	}
	return titled("Weight", strings.Join(lines, "\n"))
}

// Sleep renders nightly sleep, colored by the 7-9 hour target band.
func Sleep(s Series, width, height int) string {
	if len(s.SleepHours) == 0 {
		return titled("Sleep (hours)", mutedStyle.Render(NoData))
	}
	chart := bars(lastN(s.SleepHours, MaxBars), width, height, func(h float64) lipgloss.Color {
		switch {
		case h >= 7 && h <= 9:
			return colorGood
		case h >= 6 && h <= 10:
			return colorOK
		default:
			return colorBad
		}
	})
	return titled("Sleep (hours)", chart+"\n"+mutedStyle.Render("target 7-9 h"))
}

// Exercise renders daily exercise minutes.
func Exercise(s Series, width, height int) string {
	if len(s.ExerciseMinutes) == 0 {
		return titled("Exercise (minutes)", mutedStyle.Render(NoData))
	}
	chart := bars(lastN(s.ExerciseMinutes, MaxBars), width, height, func(m float64) lipgloss.Color {
		if m >= 30 {
			return colorGood
		}
		return colorNeutral
	})
	return titled("Exercise (minutes)", chart)
}

// Summary renders the 7-entry averages side by side.
func Summary(s Series, width, height int) string {
	r := s.Recent
	var data []barchart.BarData
	add := func(label string, v *float64, c lipgloss.Color) {
		if v == nil {
			return
		}
		data = append(data, barchart.BarData{
			Label:  fmt.Sprintf("%s %.0f", label, *v),
			Values: []barchart.BarValue{{Name: label, Value: *v, Style: style(c)}},
		})
	}
	add("weight", r.Weight, colorNeutral)
	add("hr", r.HeartRate, colorBad)
	add("sleep", r.SleepHours, colorGood)
	add("exercise", r.WeeklyExercise, colorOK)

	if len(data) == 0 {
		return titled("Last 7 entries", mutedStyle.Render(NoData))
	}
	chart := barchart.New(width, height)
	chart.PushAll(data)
	chart.Draw()
	return titled("Last 7 entries", chart.View())
}

// Goals renders progress percentage for each goal.
func Goals(goals []*models.Goal, width, height int) string {
	if len(goals) == 0 {
		return titled("Goal progress (%)", mutedStyle.Render("No goals"))
	}
	var data []barchart.BarData
	for _, g := range goals {
		p := g.Progress()
		c := colorNeutral
		switch {
		case g.Status == models.GoalCompleted:
			c = colorGood
		case g.Status == models.GoalPaused:
			c = colorSubtle
		case p < 25:
			c = colorOK
		}
		data = append(data, barchart.BarData{
			Label:  string(g.GoalType),
			Values: []barchart.BarValue{{Name: g.Description, Value: p, Style: style(c)}},
		})
	}
	chart := barchart.New(width, height)
	chart.PushAll(data)
	chart.Draw()
	return titled("Goal progress (%)", chart.View())
}
