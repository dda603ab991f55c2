package cli

import (
	"fmt"

	"swing-analyzer/internal/levels"
	"swing-analyzer/internal/store"
	"swing-analyzer/pkg/utils"
)

// verdictLabel renders a viability verdict with its conventional color.
func verdictLabel(output *Output, v levels.Verdict) string {
	switch v {
	case levels.VerdictViable:
		return output.Green("VIABLE")
	case levels.VerdictCaution:
		return output.Yellow("CAUTION")
	case levels.VerdictNotViable:
		return output.Red("NOT VIABLE")
	default:
		return string(v)
	}
}

// methodLabel names the detection method that produced the levels.
func methodLabel(m levels.Method) string {
	switch m {
	case levels.MethodPivot:
		return "swing pivots"
	case levels.MethodAgglomerative:
		return "price clustering"
	case levels.MethodVolumeProfile:
		return "volume profile (degraded)"
	default:
		return string(m)
	}
}

func renderAnalysis(output *Output, symbol string, res *levels.Result) {
	output.Bold("%s  @ %s", symbol, utils.FormatPrice(res.CurrentPrice))
	output.Dim("method: %s | ATR: %s", methodLabel(res.Method), utils.FormatPrice(res.ATR))
	if res.HighVolatility {
		output.Warning("high-volatility regime: pivot detection disabled")
	}
	if res.FibProjected {
		output.Info("price at all-time high: resistance projected from Fibonacci extensions")
	}
	output.Println()

	table := NewTable(output, "LEVEL", "ROLE", "TOUCHES", "SOURCE", "NOTES")
	for _, l := range res.Levels {
		notes := ""
		if l.RoleReversal {
			notes = "role reversal"
		}
		if l.Confluent {
			if notes != "" {
				notes += ", "
			}
			notes += "weekly confluence"
		}

		role := output.Green("support")
		if l.Role == levels.RoleResistance {
			role = output.Red("resistance")
		}
		table.AddRow(
			utils.FormatPrice(l.Price),
			role,
			fmt.Sprintf("%d", l.TouchCount),
			output.Cyan(l.Source),
			notes,
		)
	}
	table.Render()
	output.Println()

	if res.MTFConfluencePct != nil {
		output.Printf("Weekly confluence: %.0f%% of levels\n", *res.MTFConfluencePct*100)
	} else {
		output.Dim("Weekly confluence: unavailable (insufficient weekly history)")
	}
	output.Println()

	renderViability(output, res)
}

func renderViability(output *Output, res *levels.Result) {
	v := res.TradeViability

	output.Bold("Trade Viability: %s", verdictLabel(output, v.Verdict))
	if v.SupportDistancePct > 0 {
		output.Printf("  Support distance: %.2f%% below price\n", v.SupportDistancePct)
	}
	if v.StopSuggestion > 0 {
		output.Printf("  Suggested stop:   %s\n", utils.FormatPrice(v.StopSuggestion))
	}
	if v.RiskReward > 0 {
		output.Printf("  Risk/Reward:      %.2f\n", v.RiskReward)
	}
	output.Printf("  Position sizing:  %s\n", v.PositionSizeAdvice)
	if v.RiskRewardContext != "" {
		output.Dim("  %s", v.RiskRewardContext)
	}

	if len(v.PullbackZones) > 0 {
		output.Println()
		output.Info("Pullback re-entry zones:")
		for _, z := range v.PullbackZones {
			output.Printf("  %s\n", utils.FormatPrice(z))
		}
	}
}

func renderHistory(output *Output, symbol string, snaps []store.AnalysisSnapshot, dateFormat string) {
	if len(snaps) == 0 {
		output.Dim("No stored analyses for %s", symbol)
		return
	}

	output.Bold("Analysis history for %s", symbol)
	table := NewTable(output, "DATE", "PRICE", "CHANGE", "METHOD", "VERDICT", "SUPPORT", "RESISTANCE")
	for i, snap := range snaps {
		// Snapshots arrive newest first; change is measured against the next
		// older run.
		change := "-"
		if i+1 < len(snaps) && snaps[i+1].Result.CurrentPrice > 0 {
			prev := snaps[i+1].Result.CurrentPrice
			change = utils.FormatPercent((snap.Result.CurrentPrice - prev) / prev * 100)
		}
		table.AddRow(
			snap.CreatedAt.Format(dateFormat),
			utils.FormatPrice(snap.Result.CurrentPrice),
			change,
			string(snap.Result.Method),
			verdictLabel(output, snap.Result.TradeViability.Verdict),
			levelList(snap.Result.Support),
			levelList(snap.Result.Resistance),
		)
	}
	table.Render()
}

func levelList(prices []float64) string {
	if len(prices) == 0 {
		return "-"
	}
	out := ""
	for i, p := range prices {
		if i > 0 {
			out += " / "
		}
		out += utils.FormatPrice(p)
	}
	return out
}
