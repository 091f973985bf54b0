package models

import "time"

// Worldstate payloads from the game-state provider. The provider returns far
// more than this; only the fields the companion consumes are declared so that
// shape problems surface at the boundary instead of at use sites.

// MissionReward is the provider's pre-rendered reward description.
type MissionReward struct {
	AsString string `json:"asString"`
}

// AlertMission describes the mission attached to an alert.
type AlertMission struct {
	Type   string        `json:"type"`
	Node   string        `json:"node"`
	Reward MissionReward `json:"reward"`
}

// Alert is a time-limited alert mission.
type Alert struct {
	ID         string       `json:"id"`
	Activation time.Time    `json:"activation"`
	Expiry     time.Time    `json:"expiry"`
	Active     bool         `json:"active"`
	Mission    AlertMission `json:"mission"`
}

// Fissure is an open void fissure mission.
type Fissure struct {
	ID          string    `json:"id"`
	Node        string    `json:"node"`
	MissionType string    `json:"missionType"`
	Tier        string    `json:"tier"`
	Expiry      time.Time `json:"expiry"`
	Active      bool      `json:"active"`
	Expired     bool      `json:"expired"`
}

// Invasion is a faction conflict with per-side rewards.
type Invasion struct {
	ID               string        `json:"id"`
	Node             string        `json:"node"`
	AttackingFaction string        `json:"attackingFaction"`
	DefendingFaction string        `json:"defendingFaction"`
	Completion       float64       `json:"completion"`
	Completed        bool          `json:"completed"`
	AttackerReward   MissionReward `json:"attackerReward"`
	DefenderReward   MissionReward `json:"defenderReward"`
}

// GlobalEvent is a long-running in-game event from the worldstate feed.
type GlobalEvent struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Node        string    `json:"node"`
	Expiry      time.Time `json:"expiry"`
	Active      bool      `json:"active"`
}

// NightwaveChallenge is one entry of the seasonal challenge rotation.
type NightwaveChallenge struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	Reputation int    `json:"reputation"`
	IsDaily    bool   `json:"isDaily"`
	IsElite    bool   `json:"isElite"`
}

// Nightwave is the seasonal challenge track.
type Nightwave struct {
	ID               string               `json:"id"`
	Activation       time.Time            `json:"activation"`
	Expiry           time.Time            `json:"expiry"`
	Active           bool                 `json:"active"`
	Season           int                  `json:"season"`
	ActiveChallenges []NightwaveChallenge `json:"activeChallenges"`
}

// SortieVariant is one stage of the daily sortie.
type SortieVariant struct {
	MissionType string `json:"missionType"`
	Modifier    string `json:"modifier"`
	Node        string `json:"node"`
}

// Sortie is the daily three-stage mission rotation.
type Sortie struct {
	ID       string          `json:"id"`
	Boss     string          `json:"boss"`
	Faction  string          `json:"faction"`
	Expiry   time.Time       `json:"expiry"`
	Variants []SortieVariant `json:"variants"`
}

// TraderItem is one offer in the special vendor's rotation.
type TraderItem struct {
	Item    string `json:"item"`
	Ducats  int    `json:"ducats"`
	Credits int    `json:"credits"`
}

// VoidTrader is the special vendor rotation.
type VoidTrader struct {
	ID         string       `json:"id"`
	Character  string       `json:"character"`
	Location   string       `json:"location"`
	Activation time.Time    `json:"activation"`
	Expiry     time.Time    `json:"expiry"`
	Active     bool         `json:"active"`
	Inventory  []TraderItem `json:"inventory"`
}

// Worldstate is the combined live feed for one platform.
type Worldstate struct {
	Timestamp time.Time     `json:"timestamp"`
	Alerts    []Alert       `json:"alerts"`
	Fissures  []Fissure     `json:"fissures"`
	Invasions []Invasion    `json:"invasions"`
	Events    []GlobalEvent `json:"events"`
}
