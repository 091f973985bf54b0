// Package analytics derives trading statistics and insights from the trade
// ledger. Everything here is a pure function of its input: no side effects,
// deterministic, and idempotent.
package analytics

import (
	"sort"
	"time"

	"github.com/tennoware/companion/internal/models"
)

// topItemLimit caps the TopItems ranking.
const topItemLimit = 10

// trendWindow is how many of the newest trades the trend classifier reads.
const trendWindow = 20

// trendRatio is the imbalance factor that tips the trend off stable.
const trendRatio = 1.2

// ItemStat is one entry of the TopItems ranking.
type ItemStat struct {
	Item     string  `json:"item"`
	Count    int     `json:"count"`
	AvgPrice float64 `json:"avgPrice"`
}

// TradingStats are the aggregate counters over the trade ledger.
type TradingStats struct {
	TotalTrades  int        `json:"totalTrades"`
	TotalBuys    int        `json:"totalBuys"`
	TotalSells   int        `json:"totalSells"`
	TotalSpent   float64    `json:"totalSpent"`
	TotalEarned  float64    `json:"totalEarned"`
	AveragePrice float64    `json:"averagePrice"`
	TopItems     []ItemStat `json:"topItems"`
	LastTrade    time.Time  `json:"lastTrade"`
}

// Trend classifies recent trading behavior.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// PriceRange is the observed price band for one item.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// TradingInsights are the profitability conclusions drawn from the ledger.
type TradingInsights struct {
	ProfitMargin      float64               `json:"profitMargin"`
	BestSellingItem   string                `json:"bestSellingItem"`
	WorstBuyItem      string                `json:"worstBuyItem"`
	Trend             Trend                 `json:"tradingTrend"`
	RecommendedPrices map[string]PriceRange `json:"recommendedPrices"`
}

// Stats aggregates the ledger. trades are expected newest first, which only
// matters for LastTrade.
func Stats(trades []models.TradeRecord) TradingStats {
	stats := TradingStats{
		TotalTrades: len(trades),
		TopItems:    []ItemStat{},
	}

	var totalValue float64
	var totalQuantity int

	type group struct {
		count int
		value float64
	}
	groups := make(map[string]*group)
	var order []string

	for _, t := range trades {
		value := t.Price * float64(t.Quantity)
		totalValue += value
		totalQuantity += t.Quantity

		switch t.Type {
		case models.TradeBuy:
			stats.TotalBuys++
			stats.TotalSpent += value
		case models.TradeSell:
			stats.TotalSells++
			stats.TotalEarned += value
		}

		g, ok := groups[t.Item]
		if !ok {
			g = &group{}
			groups[t.Item] = g
			order = append(order, t.Item)
		}
		g.count += t.Quantity
		g.value += value
	}

	if totalQuantity > 0 {
		stats.AveragePrice = totalValue / float64(totalQuantity)
	}
	if len(trades) > 0 {
		stats.LastTrade = trades[0].Timestamp
	}

	for _, item := range order {
		g := groups[item]
		stats.TopItems = append(stats.TopItems, ItemStat{
			Item:     item,
			Count:    g.count,
			AvgPrice: g.value / float64(g.count),
		})
	}
	// Stable sort keeps grouping-encounter order between equal counts.
	sort.SliceStable(stats.TopItems, func(i, j int) bool {
		return stats.TopItems[i].Count > stats.TopItems[j].Count
	})
	if len(stats.TopItems) > topItemLimit {
		stats.TopItems = stats.TopItems[:topItemLimit]
	}

	return stats
}

// Insights derives profitability conclusions. trades are expected newest
// first; the trend classifier reads the first trendWindow records.
func Insights(trades []models.TradeRecord) TradingInsights {
	stats := Stats(trades)

	insights := TradingInsights{
		Trend:             TrendStable,
		RecommendedPrices: make(map[string]PriceRange),
	}

	if stats.TotalEarned > 0 && stats.TotalSpent > 0 {
		insights.ProfitMargin = (stats.TotalEarned - stats.TotalSpent) / stats.TotalSpent * 100
	}

	if len(stats.TopItems) > 0 {
		insights.BestSellingItem = stats.TopItems[0].Item
	}

	insights.WorstBuyItem = worstBuyItem(trades)
	insights.Trend = classifyTrend(trades)

	for item, prices := range priceObservations(trades) {
		r := PriceRange{Min: prices[0], Max: prices[0]}
		var sum float64
		for _, p := range prices {
			if p < r.Min {
				r.Min = p
			}
			if p > r.Max {
				r.Max = p
			}
			sum += p
		}
		r.Avg = sum / float64(len(prices))
		insights.RecommendedPrices[item] = r
	}

	return insights
}

// worstBuyItem is the item with the highest mean buy price. Ties keep the
// first-encountered item.
func worstBuyItem(trades []models.TradeRecord) string {
	type acc struct {
		sum   float64
		count int
	}
	buys := make(map[string]*acc)
	var order []string

	for _, t := range trades {
		if t.Type != models.TradeBuy {
			continue
		}
		a, ok := buys[t.Item]
		if !ok {
			a = &acc{}
			buys[t.Item] = a
			order = append(order, t.Item)
		}
		a.sum += t.Price
		a.count++
	}

	worst := ""
	highest := 0.0
	for _, item := range order {
		a := buys[item]
		if avg := a.sum / float64(a.count); avg > highest {
			highest = avg
			worst = item
		}
	}
	return worst
}

// classifyTrend reads the trendWindow newest trades: markedly more sells than
// buys is increasing, the reverse is decreasing, anything else stable.
func classifyTrend(trades []models.TradeRecord) Trend {
	recent := trades
	if len(recent) > trendWindow {
		recent = recent[:trendWindow]
	}

	var buys, sells int
	for _, t := range recent {
		switch t.Type {
		case models.TradeBuy:
			buys++
		case models.TradeSell:
			sells++
		}
	}

	switch {
	case float64(sells) > trendRatio*float64(buys):
		return TrendIncreasing
	case float64(buys) > trendRatio*float64(sells):
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func priceObservations(trades []models.TradeRecord) map[string][]float64 {
	prices := make(map[string][]float64)
	for _, t := range trades {
		prices[t.Item] = append(prices[t.Item], t.Price)
	}
	return prices
}
