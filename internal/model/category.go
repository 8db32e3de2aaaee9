package model

// Category is one bucket of the fixed spending taxonomy.
type Category string

// Taxonomy buckets. The declaration order is the categorizer's tie-break order.
const (
	CategoryIncome        Category = "Income"
	CategoryTransfers     Category = "Transfers"
	CategorySubscriptions Category = "Subscriptions"
	CategoryFees          Category = "Fees"
	CategoryGroceries     Category = "Groceries"
	CategoryDining        Category = "Dining & Delivery"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryUtilities     Category = "Utilities & Bills"
	CategoryHealth        Category = "Health & Fitness"
	CategoryEntertainment Category = "Entertainment"
	CategoryTravel        Category = "Travel"
	CategoryOther         Category = "Other"
)

// Leak categories used in reports.
const (
	LeakSubscription  = "Subscription"
	LeakFees          = "Fees & Charges"
	LeakFoodDelivery  = "Food Delivery"
	LeakMicroPurchase = "Small Frequent Purchases"
)

// AllCategories lists the taxonomy in tie-break order.
func AllCategories() []Category {
	return []Category{
		CategoryIncome,
		CategoryTransfers,
		CategorySubscriptions,
		CategoryFees,
		CategoryGroceries,
		CategoryDining,
		CategoryTransport,
		CategoryShopping,
		CategoryUtilities,
		CategoryHealth,
		CategoryEntertainment,
		CategoryTravel,
		CategoryOther,
	}
}
