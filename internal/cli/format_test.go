package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"swing-analyzer/internal/levels"
	"swing-analyzer/internal/store"
)

func plainOutput(buf *bytes.Buffer) *Output {
	return &Output{writer: buf, jsonMode: false, colorEnabled: false}
}

func TestRenderAnalysisSections(t *testing.T) {
	var buf bytes.Buffer
	output := plainOutput(&buf)

	pct := 0.5
	res := &levels.Result{
		Support:       []float64{243.59},
		Resistance:    []float64{249.15},
		AllSupport:    []float64{243.59},
		AllResistance: []float64{249.15},
		Method:        levels.MethodAgglomerative,
		CurrentPrice:  246.70,
		ATR:           4.2,
		Levels: []levels.Level{
			{Price: 243.59, Role: levels.RoleSupport, TouchCount: 5, RoleReversal: true, Source: "cluster"},
			{Price: 249.15, Role: levels.RoleResistance, TouchCount: 4, Confluent: true, Source: "cluster"},
		},
		MTFConfluencePct: &pct,
		TradeViability: levels.Viability{
			Verdict:            levels.VerdictViable,
			SupportDistancePct: 1.26,
			StopSuggestion:     242.54,
			RiskReward:         0.79,
			PositionSizeAdvice: "full size; stop below nearest support",
		},
	}

	renderAnalysis(output, "ACME", res)
	text := buf.String()

	for _, want := range []string{
		"ACME",
		"246.70",
		"price clustering",
		"243.59",
		"249.15",
		"role reversal",
		"weekly confluence",
		"Weekly confluence: 50% of levels",
		"VIABLE",
		"242.54",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered analysis missing %q:\n%s", want, text)
		}
	}
}

func TestRenderViabilityNotViableShowsPullbacks(t *testing.T) {
	var buf bytes.Buffer
	output := plainOutput(&buf)

	res := &levels.Result{
		TradeViability: levels.Viability{
			Verdict:            levels.VerdictNotViable,
			PositionSizeAdvice: "no position; price extended far above support",
			PullbackZones:      []float64{95, 90},
		},
	}

	renderViability(output, res)
	text := buf.String()

	if !strings.Contains(text, "NOT VIABLE") {
		t.Errorf("missing verdict:\n%s", text)
	}
	if !strings.Contains(text, "95.00") || !strings.Contains(text, "90.00") {
		t.Errorf("missing pullback zones:\n%s", text)
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	output := plainOutput(&buf)

	snaps := []store.AnalysisSnapshot{
		{
			Symbol:    "ACME",
			CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			Result: levels.Result{
				CurrentPrice:   246.70,
				Method:         levels.MethodAgglomerative,
				Support:        []float64{243.59},
				Resistance:     []float64{249.15},
				TradeViability: levels.Viability{Verdict: levels.VerdictViable},
			},
		},
		{
			Symbol:    "ACME",
			CreatedAt: time.Date(2024, 5, 25, 10, 0, 0, 0, time.UTC),
			Result: levels.Result{
				CurrentPrice:   240.00,
				Method:         levels.MethodAgglomerative,
				TradeViability: levels.Viability{Verdict: levels.VerdictCaution},
			},
		},
	}

	renderHistory(output, "ACME", snaps, "2006-01-02")
	text := buf.String()

	// (246.70 - 240.00) / 240.00 = +2.79% against the older run.
	for _, want := range []string{"2024-06-01", "246.70", "+2.79%", "agglomerative", "VIABLE", "243.59"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered history missing %q:\n%s", want, text)
		}
	}

	buf.Reset()
	renderHistory(output, "EMPTY", nil, "2006-01-02")
	if !strings.Contains(buf.String(), "No stored analyses") {
		t.Errorf("empty history message missing:\n%s", buf.String())
	}
}
