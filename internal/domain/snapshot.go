// Package domain holds the core types and ports of riftcast: the
// per-tick game snapshot, narration requests, and the interfaces
// external collaborators implement.
package domain

import "strings"

// Team identifiers as reported by the Live Client Data API.
type Team string

const (
	TeamOrder Team = "ORDER"
	TeamChaos Team = "CHAOS"
)

// Teams lists both sides in a stable order. Iteration order matters
// wherever the first team to satisfy a condition claims it.
var Teams = []Team{TeamOrder, TeamChaos}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == TeamOrder {
		return TeamChaos
	}
	return TeamOrder
}

// Event names emitted by the live client.
const (
	EventChampionKill = "ChampionKill"
	EventMultikill    = "Multikill"
	EventAce          = "Ace"
	EventDragonKill   = "DragonKill"
	EventBaronKill    = "BaronKill"
	EventHeraldKill   = "HeraldKill"
	EventHordeKill    = "HordeKill"
	EventAtakhanKill  = "AtakhanKill"
	EventFirstBrick   = "FirstBrick"
	EventTurretKilled = "TurretKilled"
	EventInhibKilled  = "InhibKilled"
	EventGameEnd      = "GameEnd"
)

// Scores is a player's score line.
type Scores struct {
	Kills      int `json:"kills"`
	Deaths     int `json:"deaths"`
	Assists    int `json:"assists"`
	CreepScore int `json:"creepScore"`
}

// Item is one inventory slot.
type Item struct {
	DisplayName string `json:"displayName"`
	Price       int    `json:"price"`
	Count       int    `json:"count"`
}

// Player is one roster entry from allPlayers.
type Player struct {
	RiotID       string `json:"riotId"`
	SummonerName string `json:"summonerName"`
	ChampionName string `json:"championName"`
	Team         Team   `json:"team"`
	Position     string `json:"position"`
	Level        int    `json:"level"`
	IsDead       bool   `json:"isDead"`
	Scores       Scores `json:"scores"`
	Items        []Item `json:"items"`
}

// ItemGold returns the gold value of the player's current inventory.
func (p *Player) ItemGold() int {
	total := 0
	for _, it := range p.Items {
		count := it.Count
		if count == 0 {
			count = 1
		}
		total += it.Price * count
	}
	return total
}

// GameEvent is one timestamped discrete event from the event list.
// Fields are a union over all event types; absent fields stay zero.
type GameEvent struct {
	ID         int64   `json:"EventID"`
	Name       string  `json:"EventName"`
	Time       float64 `json:"EventTime"`
	KillerName string  `json:"KillerName"`
	VictimName string  `json:"VictimName"`
	Recipient  string  `json:"Recipient"`
	Acer       string  `json:"Acer"`
	AcingTeam  Team    `json:"AcingTeam"`
	DragonType string  `json:"DragonType"`
	KillStreak int     `json:"KillStreak"`
	TurretName string  `json:"TurretKilled"`
	Stolen     Truthy  `json:"Stolen"`
	Result     string  `json:"Result"`
}

// Truthy decodes the live client's stringly-typed booleans
// ("True"/"False") as well as plain JSON booleans.
type Truthy bool

// UnmarshalJSON implements json.Unmarshaler.
func (t *Truthy) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*t = Truthy(strings.EqualFold(s, "true"))
	return nil
}

// Snapshot is one immutable per-tick read of the game world. Built and
// validated once at the ingestion boundary; read-only downstream.
type Snapshot struct {
	GameTime float64 // elapsed game seconds
	GameMode string

	ActiveRiotID  string
	CurrentHP     float64
	MaxHP         float64
	CurrentGold   float64
	HasChampStats bool // false when the client reports no championStats block

	Players []Player
	Events  []GameEvent

	// Derived aggregates, computed once at ingestion.
	TeamGold    map[Team]int
	DragonKills map[Team]int
	TotalKills  int
}

// ActivePlayer returns the roster entry for the viewed player, or nil
// when the roster does not contain it.
func (s *Snapshot) ActivePlayer() *Player {
	return s.PlayerByRiotID(s.ActiveRiotID)
}

// PlayerByRiotID looks a player up by riot ID.
func (s *Snapshot) PlayerByRiotID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].RiotID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// PlayerByName looks a player up by summoner name. A missing player is
// an expected condition (spectated entities, malformed events) and is
// reported by a nil return, never an error.
func (s *Snapshot) PlayerByName(name string) *Player {
	for i := range s.Players {
		if s.Players[i].SummonerName == name {
			return &s.Players[i]
		}
	}
	return nil
}

// TeamOf returns the team a summoner plays on, and whether the player
// was found.
func (s *Snapshot) TeamOf(name string) (Team, bool) {
	if p := s.PlayerByName(name); p != nil {
		return p.Team, true
	}
	return "", false
}

// TeamKills sums champion kills for one side.
func (s *Snapshot) TeamKills(team Team) int {
	total := 0
	for i := range s.Players {
		if s.Players[i].Team == team {
			total += s.Players[i].Scores.Kills
		}
	}
	return total
}

// Alive reports whether the snapshot carries usable active-player data.
// The live client keeps serving stale rosters through loading screens
// and after disconnects; championStats going missing is the liveness
// signal.
func (s *Snapshot) Alive() bool {
	return s.HasChampStats && s.ActiveRiotID != ""
}
