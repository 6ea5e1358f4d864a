package ipc

import "github.com/nstehr/trooper/model"

// These constants must stay in sync with the game server's message types.
const (
	TypeHello  = "hello"
	TypeAck    = "ack"
	TypeTurn   = "turn"
	TypeAction = "action"
)

// HelloMessage opens a session. Config and Grid are fixed for the match;
// when Config is absent the stock game rules apply.
type HelloMessage struct {
	Player int               `json:"player"`
	Config *model.GameConfig `json:"config,omitempty"`
	Grid   *model.Grid       `json:"grid,omitempty"`
}

type AckMessage struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

// TurnMessage asks for the action of one unit. The world's grid may be
// omitted once it was sent with hello.
type TurnMessage struct {
	SelfID int         `json:"selfId"`
	World  model.World `json:"world"`
}

// ActionMessage answers a turn with the unit's single action.
type ActionMessage struct {
	UnitID int              `json:"unitId"`
	Type   model.ActionType `json:"type"`
	X      int              `json:"x"`
	Y      int              `json:"y"`
}

func NewActionMessage(unitID int, a model.Action) ActionMessage {
	t := a.Type
	if a.IsNone() {
		t = model.ActionNone
	}
	return ActionMessage{UnitID: unitID, Type: t, X: a.X, Y: a.Y}
}
