package analysis

import "strings"

// Keywords are the merchant substrings that drive the leak scans. Matching
// is case-insensitive against the normalized merchant.
type Keywords struct {
	Fees         []string
	FoodDelivery []string
	Exclude      []string
}

// DefaultKeywords returns the built-in tables.
func DefaultKeywords() Keywords {
	return Keywords{
		Fees: []string{
			"FEE", "CHARGE", "FX", "OVERDRAFT", "SERVICE", "ATM", "MAINTENANCE",
			"FOREIGN TRANSACTION", "MONTHLY FEE", "ANNUAL FEE", "LATE FEE",
			"INTEREST CHARGE", "FINANCE CHARGE",
		},
		FoodDelivery: []string{
			"UBER EATS", "UBEREATS", "DOORDASH", "MENULOG", "DELIVEROO",
			"GRUBHUB", "POSTMATES", "CAVIAR", "SEAMLESS", "JUST EAT",
			"SKIP THE DISHES", "INSTACART", "GOPUFF",
		},
		Exclude: []string{
			"BALANCE", "TOTAL", "OPENING", "CLOSING", "BROUGHT FORWARD",
			"CARRIED FORWARD", "AVAILABLE", "PENDING", "CREDIT LIMIT",
		},
	}
}

// WithExtra returns a copy with additional fee and food-delivery keywords.
func (k Keywords) WithExtra(fees, foodDelivery []string) Keywords {
	return Keywords{
		Fees:         append(append([]string(nil), k.Fees...), fees...),
		FoodDelivery: append(append([]string(nil), k.FoodDelivery...), foodDelivery...),
		Exclude:      append([]string(nil), k.Exclude...),
	}
}

func (k Keywords) upper() Keywords {
	return Keywords{
		Fees:         upperAll(k.Fees),
		FoodDelivery: upperAll(k.FoodDelivery),
		Exclude:      upperAll(k.Exclude),
	}
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
