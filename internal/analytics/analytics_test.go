package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tennoware/companion/internal/models"
)

func trade(id string, tradeType models.TradeType, item string, qty int, price float64) models.TradeRecord {
	return models.TradeRecord{
		ID:        id,
		Item:      item,
		Quantity:  qty,
		Price:     price,
		Type:      tradeType,
		Trader:    "Player123",
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Platform:  "pc",
		Status:    models.TradeCompleted,
	}
}

func TestStats_BuySellScenario(t *testing.T) {
	trades := []models.TradeRecord{
		trade("1", models.TradeBuy, "A", 1, 100),
		trade("2", models.TradeSell, "A", 1, 150),
	}

	stats := Stats(trades)

	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 1, stats.TotalBuys)
	assert.Equal(t, 1, stats.TotalSells)
	assert.Equal(t, 100.0, stats.TotalSpent)
	assert.Equal(t, 150.0, stats.TotalEarned)
	assert.Equal(t, 125.0, stats.AveragePrice)

	insights := Insights(trades)
	assert.Equal(t, 50.0, insights.ProfitMargin)
	assert.Equal(t, "A", insights.BestSellingItem)
}

func TestStats_Empty(t *testing.T) {
	stats := Stats(nil)
	assert.Equal(t, 0, stats.TotalTrades)
	assert.Equal(t, 0.0, stats.AveragePrice)
	assert.Empty(t, stats.TopItems)
	assert.True(t, stats.LastTrade.IsZero())

	insights := Insights(nil)
	assert.Equal(t, 0.0, insights.ProfitMargin)
	assert.Equal(t, "", insights.BestSellingItem)
	assert.Equal(t, "", insights.WorstBuyItem)
	assert.Equal(t, TrendStable, insights.Trend)
	assert.Empty(t, insights.RecommendedPrices)
}

func TestStats_AveragePriceIsQuantityWeighted(t *testing.T) {
	trades := []models.TradeRecord{
		trade("1", models.TradeBuy, "A", 3, 10), // value 30
		trade("2", models.TradeSell, "B", 1, 50),
	}

	stats := Stats(trades)
	// (30 + 50) / 4 units
	assert.Equal(t, 20.0, stats.AveragePrice)
}

func TestStats_TopItems(t *testing.T) {
	trades := []models.TradeRecord{
		trade("1", models.TradeSell, "Soma Prime Set", 1, 200),
		trade("2", models.TradeBuy, "Nova Prime Blueprint", 2, 75),
		trade("3", models.TradeSell, "Soma Prime Set", 2, 190),
		trade("4", models.TradeBuy, "Forma", 2, 11),
	}

	stats := Stats(trades)
	require.Len(t, stats.TopItems, 3)

	assert.Equal(t, "Soma Prime Set", stats.TopItems[0].Item)
	assert.Equal(t, 3, stats.TopItems[0].Count)
	// (200 + 380) / 3 units
	assert.InDelta(t, 193.333, stats.TopItems[0].AvgPrice, 0.001)

	// Equal counts keep encounter order: Nova before Forma.
	assert.Equal(t, "Nova Prime Blueprint", stats.TopItems[1].Item)
	assert.Equal(t, "Forma", stats.TopItems[2].Item)
}

func TestStats_TopItemsCapped(t *testing.T) {
	var trades []models.TradeRecord
	for i := 0; i < 15; i++ {
		trades = append(trades, trade("id", models.TradeBuy, string(rune('A'+i)), 1, 10))
	}
	stats := Stats(trades)
	assert.Len(t, stats.TopItems, 10)
}

func TestInsights_ProfitMarginRequiresBothSides(t *testing.T) {
	onlyBuys := []models.TradeRecord{trade("1", models.TradeBuy, "A", 1, 100)}
	assert.Equal(t, 0.0, Insights(onlyBuys).ProfitMargin)

	onlySells := []models.TradeRecord{trade("1", models.TradeSell, "A", 1, 100)}
	assert.Equal(t, 0.0, Insights(onlySells).ProfitMargin)
}

func TestInsights_WorstBuyItem(t *testing.T) {
	trades := []models.TradeRecord{
		trade("1", models.TradeBuy, "Cheap", 1, 10),
		trade("2", models.TradeBuy, "Dear", 1, 500),
		trade("3", models.TradeBuy, "Dear", 1, 300),
		trade("4", models.TradeSell, "Ignored", 1, 9999),
	}
	assert.Equal(t, "Dear", Insights(trades).WorstBuyItem)
}

func TestInsights_WorstBuyItemTieKeepsFirstEncountered(t *testing.T) {
	trades := []models.TradeRecord{
		trade("1", models.TradeBuy, "First", 1, 100),
		trade("2", models.TradeBuy, "Second", 1, 100),
	}
	assert.Equal(t, "First", Insights(trades).WorstBuyItem)
}

func TestInsights_TrendIncreasing(t *testing.T) {
	// 15 sells and 5 buys within the 20-trade window.
	var trades []models.TradeRecord
	for i := 0; i < 15; i++ {
		trades = append(trades, trade("s", models.TradeSell, "A", 1, 10))
	}
	for i := 0; i < 5; i++ {
		trades = append(trades, trade("b", models.TradeBuy, "A", 1, 10))
	}
	assert.Equal(t, TrendIncreasing, Insights(trades).Trend)
}

func TestInsights_TrendDecreasing(t *testing.T) {
	var trades []models.TradeRecord
	for i := 0; i < 10; i++ {
		trades = append(trades, trade("b", models.TradeBuy, "A", 1, 10))
	}
	for i := 0; i < 3; i++ {
		trades = append(trades, trade("s", models.TradeSell, "A", 1, 10))
	}
	assert.Equal(t, TrendDecreasing, Insights(trades).Trend)
}

func TestInsights_TrendReadsOnlyNewestTwenty(t *testing.T) {
	// 20 newest are all sells; a tail of buys past the window must not count.
	var trades []models.TradeRecord
	for i := 0; i < 20; i++ {
		trades = append(trades, trade("s", models.TradeSell, "A", 1, 10))
	}
	for i := 0; i < 40; i++ {
		trades = append(trades, trade("b", models.TradeBuy, "A", 1, 10))
	}
	assert.Equal(t, TrendIncreasing, Insights(trades).Trend)
}

func TestInsights_RecommendedPrices(t *testing.T) {
	trades := []models.TradeRecord{
		trade("1", models.TradeBuy, "A", 1, 100),
		trade("2", models.TradeSell, "A", 1, 150),
		trade("3", models.TradeSell, "A", 1, 110),
		trade("4", models.TradeBuy, "B", 1, 40),
	}

	prices := Insights(trades).RecommendedPrices
	require.Len(t, prices, 2)

	a := prices["A"]
	assert.Equal(t, 100.0, a.Min)
	assert.Equal(t, 150.0, a.Max)
	assert.Equal(t, 120.0, a.Avg)

	b := prices["B"]
	assert.Equal(t, PriceRange{Min: 40, Max: 40, Avg: 40}, b)
}

func TestDerivationIsIdempotent(t *testing.T) {
	trades := []models.TradeRecord{
		trade("1", models.TradeBuy, "A", 2, 100),
		trade("2", models.TradeSell, "B", 1, 250),
		trade("3", models.TradeSell, "A", 1, 130),
	}

	stats1, _ := json.Marshal(Stats(trades))
	stats2, _ := json.Marshal(Stats(trades))
	assert.Equal(t, stats1, stats2)

	insights1, _ := json.Marshal(Insights(trades))
	insights2, _ := json.Marshal(Insights(trades))
	assert.Equal(t, insights1, insights2)
}
