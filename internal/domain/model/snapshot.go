// Package model contains the snapshot data model shared between layers.
//
// Shapes mirror the Dota 2 Game State Integration payload. Every field the
// feed may omit is a pointer; absence propagates downstream as "unknown"
// rather than a zero value.
package model

import (
	"fmt"
	"strings"
)

// Team identifiers as they appear in minimap marker records.
const (
	TeamRadiant = 2
	TeamDire    = 3
)

// MarkerKind classifies a minimap marker record. Classification is by
// equality against the feed's image tag, never by structure.
type MarkerKind string

// MarkerEnemyIcon tags a visible hostile unit on the minimap. Other kinds
// (wards, runes, couriers) are irrelevant to tracking.
const MarkerEnemyIcon MarkerKind = "minimap_enemyicon"

// Snapshot is one instant's full match state as pushed by the game client.
// It is produced once at the ingestion boundary and never mutated afterwards.
type Snapshot struct {
	Provider  *Provider                      `json:"provider,omitempty"`
	Map       *MapInfo                       `json:"map,omitempty"`
	Player    *PlayerState                   `json:"player,omitempty"`
	Hero      *HeroState                     `json:"hero,omitempty"`
	Abilities map[string]AbilityState        `json:"abilities,omitempty"`
	Items     map[string]ItemState           `json:"items,omitempty"`
	Minimap   map[string]MinimapMarker       `json:"minimap,omitempty"`
	Buildings map[string]map[string]Building `json:"buildings,omitempty"`

	// IngestID is assigned at the ingestion boundary and is not part of the
	// wire payload.
	IngestID string `json:"-"`
}

// Provider identifies the pushing client.
type Provider struct {
	Name      *string `json:"name,omitempty"`
	AppID     *int    `json:"appid,omitempty"`
	Version   *int    `json:"version,omitempty"`
	Timestamp *int64  `json:"timestamp,omitempty"`
}

// MapInfo carries match-level state, including the game clock.
type MapInfo struct {
	Name      *string `json:"name,omitempty"`
	MatchID   *string `json:"matchid,omitempty"`
	GameTime  *int    `json:"game_time,omitempty"`
	ClockTime *int    `json:"clock_time,omitempty"`
	Daytime   *bool   `json:"daytime,omitempty"`
	GameState *string `json:"game_state,omitempty"`
	Paused    *bool   `json:"paused,omitempty"`
}

// PlayerState carries the locally tracked player's counters.
type PlayerState struct {
	SteamID  *string `json:"steamid,omitempty"`
	Name     *string `json:"name,omitempty"`
	TeamName *string `json:"team_name,omitempty"`
	Kills    *int    `json:"kills,omitempty"`
	Deaths   *int    `json:"deaths,omitempty"`
	Assists  *int    `json:"assists,omitempty"`
	LastHits *int    `json:"last_hits,omitempty"`
	Denies   *int    `json:"denies,omitempty"`
	Gold     *int    `json:"gold,omitempty"`
	NetWorth *int    `json:"net_worth,omitempty"`
	GPM      *int    `json:"gpm,omitempty"`
	XPM      *int    `json:"xpm,omitempty"`

	// KillList maps victim identifiers (e.g. "victimid_4") to cumulative
	// elimination counts credited to this player.
	KillList map[string]int `json:"kill_list,omitempty"`
}

// HeroState carries the locally tracked hero's status.
type HeroState struct {
	ID             *int    `json:"id,omitempty"`
	Name           *string `json:"name,omitempty"`
	Level          *int    `json:"level,omitempty"`
	Alive          *bool   `json:"alive,omitempty"`
	RespawnSeconds *int    `json:"respawn_seconds,omitempty"`
	BuybackCost    *int    `json:"buyback_cost,omitempty"`
	Health         *int    `json:"health,omitempty"`
	MaxHealth      *int    `json:"max_health,omitempty"`
	HealthPercent  *int    `json:"health_percent,omitempty"`
	Mana           *int    `json:"mana,omitempty"`
	MaxMana        *int    `json:"max_mana,omitempty"`
	ManaPercent    *int    `json:"mana_percent,omitempty"`
	XPos           *int    `json:"xpos,omitempty"`
	YPos           *int    `json:"ypos,omitempty"`
}

// AbilityState carries one ability slot's availability.
type AbilityState struct {
	Name     *string `json:"name,omitempty"`
	Level    *int    `json:"level,omitempty"`
	CanCast  *bool   `json:"can_cast,omitempty"`
	Passive  *bool   `json:"passive,omitempty"`
	Cooldown *int    `json:"cooldown,omitempty"`
	Ultimate *bool   `json:"ultimate,omitempty"`
}

// ItemState carries one inventory slot.
type ItemState struct {
	Name     *string `json:"name,omitempty"`
	CanCast  *bool   `json:"can_cast,omitempty"`
	Cooldown *int    `json:"cooldown,omitempty"`
	Charges  *int    `json:"charges,omitempty"`
}

// MinimapMarker is one observed map marker at this instant.
type MinimapMarker struct {
	Image MarkerKind `json:"image"`
	Name  *string    `json:"name,omitempty"`
	Team  int        `json:"team"`
	XPos  int        `json:"xpos"`
	YPos  int        `json:"ypos"`
}

// Building carries one structure's health pair.
type Building struct {
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
}

// Hostile reports whether the marker is a visible hostile unit icon.
func (m MinimapMarker) Hostile() bool {
	return m.Image == MarkerEnemyIcon
}

// Clock returns the game clock in seconds. The second return is false when
// the feed omitted the clock.
func (s *Snapshot) Clock() (int, bool) {
	if s == nil || s.Map == nil || s.Map.GameTime == nil {
		return 0, false
	}
	return *s.Map.GameTime, true
}

// OpposingTeamID derives the hostile team id from the player's team name.
// An absent or unrecognized team defaults to treating Dire as hostile.
func (s *Snapshot) OpposingTeamID() int {
	if s == nil || s.Player == nil || s.Player.TeamName == nil {
		return TeamDire
	}
	switch strings.ToLower(*s.Player.TeamName) {
	case "radiant":
		return TeamDire
	case "dire":
		return TeamRadiant
	default:
		return TeamDire
	}
}

// HeroPosition returns the local hero's map coordinates if both axes are known.
func (s *Snapshot) HeroPosition() (x, y int, ok bool) {
	if s == nil || s.Hero == nil || s.Hero.XPos == nil || s.Hero.YPos == nil {
		return 0, 0, false
	}
	return *s.Hero.XPos, *s.Hero.YPos, true
}

// HeroAlive reports the hero's alive flag. ok is false when the feed omitted it.
func (s *Snapshot) HeroAlive() (alive, ok bool) {
	if s == nil || s.Hero == nil || s.Hero.Alive == nil {
		return false, false
	}
	return *s.Hero.Alive, true
}

// FormatHeroName converts an internal unit name such as
// "npc_dota_hero_bounty_hunter" into a display name ("Bounty Hunter").
func FormatHeroName(name string) string {
	name = strings.TrimPrefix(name, "npc_dota_hero_")
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatClock renders a game-clock value as M:SS.
func FormatClock(seconds int) string {
	neg := ""
	if seconds < 0 {
		neg = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d", neg, seconds/60, seconds%60)
}
