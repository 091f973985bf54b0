package models

// Market provider payloads. The market API wraps everything in a
// {"payload": {...}} envelope; the envelope types live with the client, the
// domain shapes live here.

// MarketItem is one catalog entry.
type MarketItem struct {
	ID       string `json:"id"`
	ItemName string `json:"item_name"`
	URLName  string `json:"url_name"`
	Thumb    string `json:"thumb"`
}

// MarketUser is the counterparty attached to an order.
type MarketUser struct {
	IngameName string `json:"ingame_name"`
	Status     string `json:"status"`
	Reputation int    `json:"reputation"`
}

// MarketOrder is one entry of an item's order book.
type MarketOrder struct {
	ID        string     `json:"id"`
	OrderType string     `json:"order_type"`
	Platinum  float64    `json:"platinum"`
	Quantity  int        `json:"quantity"`
	Platform  string     `json:"platform"`
	Region    string     `json:"region"`
	Visible   bool       `json:"visible"`
	User      MarketUser `json:"user"`
}

// MarketStatistic is one aggregated price point for an item.
type MarketStatistic struct {
	Datetime string  `json:"datetime"`
	Volume   int     `json:"volume"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	AvgPrice float64 `json:"avg_price"`
}
