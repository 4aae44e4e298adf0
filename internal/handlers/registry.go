package handlers

// AppHandlers holds every handler wired in app.Build.
type AppHandlers struct {
	AuthHandler           *AuthHandler
	SubscriptionHandler   *SubscriptionHandler
	PaymentHistoryHandler *PaymentHistoryHandler
}
