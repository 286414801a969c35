package domain

// Transaction reason codes. The daily reward reason doubles as the
// idempotency key for once-per-day claims.
const (
	ReasonDailyReward       = "daily_reward"
	ReasonRegistrationBonus = "registration_bonus"
	ReasonListeningReward   = "listening_reward"
	ReasonAdminGrant        = "admin_grant"
)

// Supported streaming services.
const (
	ServiceYandex = "yandex"
	ServiceVK     = "vk"
)

// PurchaseReason tags a purchase transaction with the item type bought.
func PurchaseReason(itemType string) string {
	return "purchase_" + itemType
}
