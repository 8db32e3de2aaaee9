package llm

import (
	"encoding/json"
	"fmt"
)

const systemPrompt = "You are a personal finance assistant. You MUST respond with ONLY a valid JSON object. " +
	"Do not include any explanatory text, markdown formatting, or commentary before or after the JSON."

func buildPrompt(agg Aggregate) (string, error) {
	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal aggregate: %w", err)
	}

	return fmt.Sprintf(`Analyze this anonymized spending summary and suggest realistic ways to save money.
Amounts are given as ranges and shares of total spend. Merchant names have been removed.

Spending summary:
%s

Enhance the analysis by:
1. Identifying spending patterns the category totals suggest but the detected leaks might have missed
2. Suggesting better groupings for categories
3. Suggesting specific, actionable "easy wins" for saving money
4. Creating a personalized recovery plan based on the spending patterns

Respond with a JSON object containing:
- "enhanced_leaks": array of additional leaks, each with "category", "merchant" (a short label for the pattern, never a real business name), "monthly_cost", "yearly_cost" and "explanation"
- "category_improvements": object mapping category names to a better grouping
- "easy_wins": array of savings opportunities with "title", "estimated_yearly_savings" and "action"
- "recovery_plan": array of specific steps as strings

Focus on practical financial advice. Do not provide investment advice. Keep suggestions realistic and achievable.`, string(data)), nil
}
