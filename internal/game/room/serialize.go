package room

import (
	"github.com/dpimentel/domino-dominicano/internal/game/engine"
	"github.com/dpimentel/domino-dominicano/internal/game/tile"
	"github.com/dpimentel/domino-dominicano/internal/protocol"
	"github.com/dpimentel/domino-dominicano/internal/storage"
)

// TilesToInfos converts tiles to their wire form.
func TilesToInfos(tiles []tile.Tile) []protocol.TileInfo {
	infos := make([]protocol.TileInfo, len(tiles))
	for i, t := range tiles {
		infos[i] = protocol.TileInfo{A: t.A, B: t.B}
	}
	return infos
}

// TileFromInfo converts a wire tile back to the domain type.
func TileFromInfo(info protocol.TileInfo) tile.Tile {
	return tile.Tile{A: info.A, B: info.B}
}

// MatchStateDTO builds the public view of an engine snapshot. Hands are
// reduced to counts; sendHands delivers the private tiles.
func MatchStateDTO(snap engine.Snapshot) protocol.MatchStateDTO {
	dto := protocol.MatchStateDTO{
		HandNumber:  snap.HandNumber,
		Board:       TilesToInfos(snap.Board),
		HeadValue:   snap.Head,
		TailValue:   snap.Tail,
		CurrentTurn: snap.CurrentTurn,
		ScoreTeamA:  snap.Scores[engine.TeamA],
		ScoreTeamB:  snap.Scores[engine.TeamB],
		TargetScore: snap.TargetScore,
		Passes:      snap.Passes,
		MatchOver:   snap.State == engine.StateMatchResolved,
	}
	if !snap.TurnDeadline.IsZero() {
		dto.TurnDeadline = snap.TurnDeadline.UnixMilli()
	}
	for i, hand := range snap.Hands {
		dto.TileCounts[i] = len(hand)
	}
	if snap.Champion != engine.TeamNone {
		dto.ChampionTeam = snap.Champion.String()
	}
	return dto
}

// ToRoomData builds the redis mirror record.
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := &storage.RoomData{
		Code:      r.Code,
		Status:    r.status.String(),
		IsPrivate: r.IsPrivate,
		CreatedAt: r.CreatedAt.Unix(),
	}
	for _, s := range r.seats {
		if s == nil {
			continue
		}
		data.Seats = append(data.Seats, storage.SeatData{
			Seat:      s.Index,
			Team:      s.Team().String(),
			PlayerID:  s.Client.GetID(),
			Name:      s.Client.GetName(),
			Connected: s.Connected,
		})
	}
	if r.eng != nil {
		snap := r.eng.Snapshot()
		data.Match = &storage.MatchData{
			HandNumber:  snap.HandNumber,
			CurrentTurn: snap.CurrentTurn,
			ScoreTeamA:  snap.Scores[engine.TeamA],
			ScoreTeamB:  snap.Scores[engine.TeamB],
		}
	}
	return data
}
