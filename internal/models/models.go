package models

import "time"

// Platform identifies the game platform a request or record belongs to.
type Platform string

const (
	PlatformPC     Platform = "pc"
	PlatformPS4    Platform = "ps4"
	PlatformXbox   Platform = "xbox"
	PlatformSwitch Platform = "switch"
)

// Valid reports whether p is one of the platforms the providers accept.
func (p Platform) Valid() bool {
	switch p {
	case PlatformPC, PlatformPS4, PlatformXbox, PlatformSwitch:
		return true
	}
	return false
}

// EventType classifies a display event derived from the worldstate feed.
type EventType string

const (
	EventAlert    EventType = "alert"
	EventFissure  EventType = "fissure"
	EventInvasion EventType = "invasion"
	EventGeneric  EventType = "event"
)

// Event is the transient display record a sync produces from remote payloads.
// Events are rebuilt wholesale on every successful sync and never persisted.
type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Type     EventType `json:"type"`
	Location string    `json:"location,omitempty"`
	Reward   string    `json:"reward,omitempty"`
	Expiry   string    `json:"expiry"`
	Active   bool      `json:"active"`
}

// TradeType is the side of a trade.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// TradeStatus is the settlement state of a trade record.
type TradeStatus string

const (
	TradeCompleted TradeStatus = "completed"
	TradePending   TradeStatus = "pending"
	TradeCancelled TradeStatus = "cancelled"
)

// TradeRecord is one entry in the append-only trade ledger, newest first.
type TradeRecord struct {
	ID        string      `json:"id"`
	Item      string      `json:"item"`
	Quantity  int         `json:"quantity"`
	Price     float64     `json:"price"`
	Type      TradeType   `json:"type"`
	Trader    string      `json:"trader"`
	Timestamp time.Time   `json:"timestamp"`
	Platform  string      `json:"platform"`
	Status    TradeStatus `json:"status"`
}

// UserProfile is the player identity bound to an auth token.
type UserProfile struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Platform  Platform `json:"platform"`
	Mastery   int      `json:"mastery"`
	Playtime  int      `json:"playtime"`
	LastLogin string   `json:"lastLogin"`
	Avatar    string   `json:"avatar,omitempty"`
}

// AuthToken is the single persisted session credential. ExpiresAt is the
// absolute expiry instant in unix milliseconds, matching the identity
// provider's wire format.
type AuthToken struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    int64       `json:"expiresIn"`
	User         UserProfile `json:"user"`
}

// Expired reports whether the token's expiry instant has passed.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.UnixMilli() > t.ExpiresAt
}

// TaskCategory distinguishes daily from weekly checklist entries.
type TaskCategory string

const (
	TaskDaily  TaskCategory = "daily"
	TaskWeekly TaskCategory = "weekly"
)

// Task is one checklist entry.
type Task struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Category  TaskCategory `json:"category"`
	Completed bool         `json:"completed"`
	Expiry    string       `json:"expiry"`
	Reward    string       `json:"reward,omitempty"`
}

// Build is a shared community loadout.
type Build struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Warframe    string   `json:"warframe"`
	Mods        []string `json:"mods"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Rating      float64  `json:"rating"`
	Downloads   int      `json:"downloads"`
	Difficulty  string   `json:"difficulty"`
}

// Riven is a tracked riven mod, optionally listed for sale.
type Riven struct {
	ID     string   `json:"id"`
	Weapon string   `json:"weapon"`
	Stats  []string `json:"stats"`
	Rank   int      `json:"rank"`
	Price  float64  `json:"price,omitempty"`
	Listed bool     `json:"listed"`
}

// InventoryItem tracks mastery progress for one piece of equipment.
type InventoryItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	MasteryXP int     `json:"masteryXP"`
	Rarity    string  `json:"rarity"`
	Status    string  `json:"status"`
	Price     float64 `json:"price,omitempty"`
}

// NotificationSettings toggles per-category alerts.
type NotificationSettings struct {
	Tasks     bool `json:"tasks"`
	Events    bool `json:"events"`
	Baro      bool `json:"baro"`
	Fissures  bool `json:"fissures"`
	Invasions bool `json:"invasions"`
	Alerts    bool `json:"alerts"`
	Trades    bool `json:"trades"`
}

// Settings is the persisted user preference document.
type Settings struct {
	Theme         string               `json:"theme"`
	Notifications NotificationSettings `json:"notifications"`
	Language      string               `json:"language"`
	Platform      Platform             `json:"platform"`
}

// DefaultSettings returns the out-of-box preference document.
func DefaultSettings() Settings {
	return Settings{
		Theme: "auto",
		Notifications: NotificationSettings{
			Tasks:     true,
			Events:    true,
			Baro:      true,
			Fissures:  true,
			Invasions: true,
			Alerts:    true,
			Trades:    true,
		},
		Language: "en",
		Platform: PlatformPC,
	}
}
