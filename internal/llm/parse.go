package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

var errEmptyEnrichment = errors.New("enrichment reply has no usable content")

// cleanMarkdownWrapper strips ```json fences and any prose around the JSON
// object.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if i := strings.Index(content, "```json"); i >= 0 {
		content = content[i+len("```json"):]
		if j := strings.Index(content, "```"); j >= 0 {
			content = content[:j]
		}
	} else if i := strings.Index(content, "```"); i >= 0 {
		content = content[i+3:]
		if j := strings.Index(content, "```"); j >= 0 {
			content = content[:j]
		}
	}

	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "{") {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start >= 0 && end > start {
			content = content[start : end+1]
		}
	}
	return content
}

// flexNumber accepts 12.5, "12.5" and "$1,200" alike. Anything else reads
// as zero.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexNumber(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, ok := normalize.ParseAmount(s); ok {
			*f = flexNumber(v)
			return nil
		}
	}

	*f = 0
	return nil
}

func (f flexNumber) value() float64 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type replyLeak struct {
	Category         string     `json:"category"`
	Merchant         string     `json:"merchant"`
	Explanation      string     `json:"explanation"`
	MonthlyCost      flexNumber `json:"monthly_cost"`
	MonthlyCostCamel flexNumber `json:"monthlyCost"`
	YearlyCost       flexNumber `json:"yearly_cost"`
	YearlyCostCamel  flexNumber `json:"yearlyCost"`
}

type replyEasyWin struct {
	Title        string     `json:"title"`
	Action       string     `json:"action"`
	Savings      flexNumber `json:"estimated_yearly_savings"`
	SavingsCamel flexNumber `json:"estimatedYearlySavings"`
}

type enrichmentReply struct {
	CategoryImprovements map[string]any    `json:"category_improvements"`
	EnhancedLeaks        []replyLeak       `json:"enhanced_leaks"`
	EasyWins             []replyEasyWin    `json:"easy_wins"`
	RecoveryPlan         []json.RawMessage `json:"recovery_plan"`
}

// parseEnrichment decodes a model reply, coercing numbers given as strings
// and dropping entries it cannot use.
func parseEnrichment(content string) (*model.Enrichment, error) {
	var reply enrichmentReply
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	out := &model.Enrichment{}

	for _, l := range reply.EnhancedLeaks {
		merchant := strings.TrimSpace(l.Merchant)
		if merchant == "" {
			continue
		}
		monthly := l.MonthlyCost.value()
		if monthly == 0 {
			monthly = l.MonthlyCostCamel.value()
		}
		yearly := l.YearlyCost.value()
		if yearly == 0 {
			yearly = l.YearlyCostCamel.value()
		}
		if yearly == 0 {
			yearly = monthly * 12
		}
		out.EnhancedLeaks = append(out.EnhancedLeaks, model.Leak{
			Category:    strings.TrimSpace(l.Category),
			Merchant:    merchant,
			Explanation: strings.TrimSpace(l.Explanation),
			MonthlyCost: normalize.Round2(monthly),
			YearlyCost:  normalize.Round2(yearly),
		})
	}

	for _, w := range reply.EasyWins {
		title := strings.TrimSpace(w.Title)
		if title == "" {
			continue
		}
		savings := w.Savings.value()
		if savings == 0 {
			savings = w.SavingsCamel.value()
		}
		out.EasyWins = append(out.EasyWins, model.EasyWin{
			Title:                  title,
			Action:                 strings.TrimSpace(w.Action),
			EstimatedYearlySavings: normalize.Round2(savings),
		})
	}

	for _, raw := range reply.RecoveryPlan {
		var step string
		if err := json.Unmarshal(raw, &step); err != nil {
			continue
		}
		if step = strings.TrimSpace(step); step != "" {
			out.RecoveryPlan = append(out.RecoveryPlan, step)
		}
	}

	if len(reply.CategoryImprovements) > 0 {
		out.CategoryImprovements = make(map[string]string, len(reply.CategoryImprovements))
		for k, v := range reply.CategoryImprovements {
			out.CategoryImprovements[k] = fmt.Sprint(v)
		}
	}

	if len(out.EnhancedLeaks) == 0 && len(out.EasyWins) == 0 &&
		len(out.RecoveryPlan) == 0 && len(out.CategoryImprovements) == 0 {
		return nil, errEmptyEnrichment
	}
	return out, nil
}
