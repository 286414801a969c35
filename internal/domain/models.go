package domain

import "time"

type User struct {
	ID               int       `db:"id"`
	Username         string    `db:"username"`
	Email            string    `db:"email"`
	DisplayName      string    `db:"display_name"`
	PasswordHash     string    `db:"password_hash"`
	Bio              string    `db:"bio"`
	AvatarURL        string    `db:"avatar_url"`
	BannerURL        string    `db:"banner_url"`
	TelegramID       *int64    `db:"telegram_id"`
	TelegramUsername string    `db:"telegram_username"`
	TelegramVerified bool      `db:"telegram_verified"`
	YandexToken      string    `db:"yandex_token"`
	VKToken          string    `db:"vk_token"`
	Theme            string    `db:"theme"`
	Language         string    `db:"language"`
	CreatedAt        time.Time `db:"created_at"`
	LastActive       time.Time `db:"last_active"`
}

type Wallet struct {
	ID          int       `db:"id"`
	UserID      int       `db:"user_id"`
	Balance     int64     `db:"balance"`
	TotalEarned int64     `db:"total_earned"`
	TotalSpent  int64     `db:"total_spent"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Transaction struct {
	ID        int            `db:"id"`
	UserID    int            `db:"user_id"`
	Amount    int64          `db:"amount"`
	Reason    string         `db:"reason"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
}

type ShopCategory struct {
	ID           int    `db:"id"`
	Name         string `db:"name"`
	Description  string `db:"description"`
	Icon         string `db:"icon"`
	DisplayOrder int    `db:"display_order"`
	IsActive     bool   `db:"is_active"`
}

// UnlimitedStock marks items that never run out.
const UnlimitedStock = -1

type ShopItem struct {
	ID          int            `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	ItemType    string         `db:"item_type"`
	CategoryID  int            `db:"category_id"`
	Price       int64          `db:"price"`
	Rarity      string         `db:"rarity"`
	Stock       int            `db:"stock"`
	SalesCount  int            `db:"sales_count"`
	IsActive    bool           `db:"is_active"`
	IsFeatured  bool           `db:"is_featured"`
	Payload     map[string]any `db:"payload"`
	ImageURL    string         `db:"image_url"`
	PreviewURL  string         `db:"preview_url"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (i *ShopItem) InStock() bool {
	return i.Stock == UnlimitedStock || i.Stock > 0
}

type InventoryItem struct {
	ID          int       `db:"id"`
	UserID      int       `db:"user_id"`
	ItemID      int       `db:"item_id"`
	Equipped    bool      `db:"equipped"`
	PurchasedAt time.Time `db:"purchased_at"`
}

type Settings struct {
	ID                    int       `db:"id"`
	UserID                int       `db:"user_id"`
	Theme                 string    `db:"theme"`
	Language              string    `db:"language"`
	AutoPlay              bool      `db:"auto_play"`
	ShowExplicit          bool      `db:"show_explicit"`
	MusicService          string    `db:"music_service"`
	NotificationsEnabled  bool      `db:"notifications_enabled"`
	TelegramNotifications bool      `db:"telegram_notifications"`
	PrivacyLevel          string    `db:"privacy_level"`
	UpdatedAt             time.Time `db:"updated_at"`
}

type Statistics struct {
	ID                  int        `db:"id"`
	UserID              int        `db:"user_id"`
	TracksListened      int        `db:"tracks_listened"`
	MinutesListened     int        `db:"minutes_listened"`
	ItemsPurchased      int        `db:"items_purchased"`
	Level               int        `db:"level"`
	XP                  int        `db:"xp"`
	DailyRewardsClaimed int        `db:"daily_rewards_claimed"`
	LastDailyReward     *time.Time `db:"last_daily_reward"`
	TotalLogins         int        `db:"total_logins"`
}

type Friend struct {
	ID         int       `db:"id"`
	UserID     int       `db:"user_id"`
	FriendID   int       `db:"friend_id"`
	Status     string    `db:"status"`
	TasteMatch int       `db:"taste_match"`
	CreatedAt  time.Time `db:"created_at"`
}

type HistoryEntry struct {
	ID         int            `db:"id"`
	UserID     int            `db:"user_id"`
	TrackID    string         `db:"track_id"`
	Service    string         `db:"service"`
	TrackData  map[string]any `db:"track_data"`
	DurationMS int            `db:"duration_ms"`
	PlayedAt   time.Time      `db:"played_at"`
}

// OwnedItem is an inventory row joined with its catalog item.
type OwnedItem struct {
	Item        ShopItem
	Equipped    bool
	PurchasedAt time.Time
}

// FriendProfile is an accepted friend joined with their user profile.
type FriendProfile struct {
	UserID      int
	Username    string
	DisplayName string
	AvatarURL   string
	TasteMatch  int
	Since       time.Time
}

type LinkCode struct {
	ID               int        `db:"id"`
	Code             string     `db:"code"`
	UserID           int        `db:"user_id"`
	Purpose          string     `db:"purpose"`
	TelegramID       *int64     `db:"telegram_id"`
	TelegramUsername string     `db:"telegram_username"`
	IsUsed           bool       `db:"is_used"`
	UsedAt           *time.Time `db:"used_at"`
	ExpiresAt        time.Time  `db:"expires_at"`
	CreatedAt        time.Time  `db:"created_at"`
}
