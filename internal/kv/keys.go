package kv

// Prefix namespaces every application key so unrelated data sharing the
// medium is never touched.
const Prefix = "ji-bajeti-"

// Keys owned by the application.
const (
	KeyLoggedIn      = Prefix + "logged-in"
	KeyCurrentScreen = Prefix + "screen"
	KeyDarkMode      = Prefix + "dark-mode"
	KeyCurrency      = Prefix + "currency"
	KeyNotifications = Prefix + "notifications"
	KeyTransactions  = Prefix + "transactions"
	KeySavingsGoals  = Prefix + "savings-goals"
	KeyBudgets       = Prefix + "budgets"
	KeyUserProfile   = Prefix + "user-profile"
	KeyShownInsights = Prefix + "shown-insights"
)

var knownKeys = []string{
	KeyLoggedIn,
	KeyCurrentScreen,
	KeyDarkMode,
	KeyCurrency,
	KeyNotifications,
	KeyTransactions,
	KeySavingsGoals,
	KeyBudgets,
	KeyUserProfile,
	KeyShownInsights,
}

// KnownKeys returns the fixed, enumerated key set in a stable order.
func KnownKeys() []string {
	return append([]string(nil), knownKeys...)
}

// IsKnown reports whether key belongs to the application key set.
func IsKnown(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}
