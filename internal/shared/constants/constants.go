package constants

// Database table names
const (
	TableSubscriptions = "subscriptions"
)
