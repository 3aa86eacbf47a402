// Package snapshot turns the plain-data results of introspection queries
// into typed views for a status panel. Queries return maps by value, so the
// panel never aliases engine-owned memory; this package only shapes the
// copies.
package snapshot

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/grue-if/grue/pkg/bridge"
)

// Player is the status-panel view of player state.
type Player struct {
	Room  string `mapstructure:"room"`
	Moves int    `mapstructure:"moves"`
	Score int    `mapstructure:"score"`
}

// Room is the status-panel view of the current room.
type Room struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// DecodePlayer maps a query result onto a Player view.
func DecodePlayer(raw any) (Player, error) {
	var p Player
	if err := mapstructure.Decode(raw, &p); err != nil {
		return Player{}, fmt.Errorf("failed to decode player snapshot: %w", err)
	}
	return p, nil
}

// DecodeRoom maps a query result onto a Room view.
func DecodeRoom(raw any) (Room, error) {
	var r Room
	if err := mapstructure.Decode(raw, &r); err != nil {
		return Room{}, fmt.Errorf("failed to decode room snapshot: %w", err)
	}
	return r, nil
}

// Panel produces typed snapshots by routing the interpreter's query
// functions through the introspection bridge. Safe to use from any
// goroutine.
type Panel struct {
	Intro       *bridge.Introspector
	PlayerQuery bridge.Query
	RoomQuery   bridge.Query
}

// Player fetches a consistent player snapshot.
func (p *Panel) Player(ctx context.Context) (Player, error) {
	raw, err := p.Intro.Call(ctx, p.PlayerQuery)
	if err != nil {
		return Player{}, err
	}
	return DecodePlayer(raw)
}

// Room fetches a consistent room snapshot.
func (p *Panel) Room(ctx context.Context) (Room, error) {
	raw, err := p.Intro.Call(ctx, p.RoomQuery)
	if err != nil {
		return Room{}, err
	}
	return DecodeRoom(raw)
}
