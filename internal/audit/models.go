package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture state-changing actions. Keep
// it transport-agnostic so stores and sinks can fan out.
//
// Ballot secrecy contract: the CAST_VOTE event must never carry the chosen
// candidate. Publisher.Emit strips any candidate reference from the payload
// of that action as a hard guarantee, whatever the caller passed.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	ActorType string         `json:"actor_type"`
	ActorID   string         `json:"actor_id,omitempty"`
	Action    Action         `json:"action"`
	Entity    string         `json:"entity"`
	EntityID  string         `json:"entity_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Action names a state-changing operation. Values match the actions the
// legacy system recorded so existing audit dashboards keep working.
type Action string

const (
	ActionRegister          Action = "REGISTER"
	ActionLogin             Action = "LOGIN"
	ActionLogout            Action = "LOGOUT"
	ActionCreatePosition    Action = "CREATE_POSITION"
	ActionSubmitNomination  Action = "SUBMIT_NOMINATION"
	ActionApproveNomination Action = "APPROVE_NOMINATION"
	ActionRejectNomination  Action = "REJECT_NOMINATION"
	ActionUpdateCandidate   Action = "UPDATE_CANDIDATE"
	ActionCastVote          Action = "CAST_VOTE"
	ActionImportVoters      Action = "IMPORT_VOTERS"
)

// Actor types recorded on events.
const (
	ActorSystem = "system"
	ActorUser   = "user"
	ActorVoter  = "voter"
)
