// Package redisbus fans notifications out across instances through Redis pub/sub.
//
// Publisher stands in for the local hub on the sending side: every send becomes an
// Envelope on one channel. Relay runs on every instance, reads the channel and hands
// each envelope to its local transport, so a user connected to any instance gets it.
package redisbus

import (
	"encoding/json"
	"fmt"

	"courierflow/internal/core/domain/model/kernel"
)

const DefaultChannel = "courierflow:notifications"

type Audience string

const (
	AudienceUser        Audience = "user"
	AudienceDispatchers Audience = "dispatchers"
	AudienceOrder       Audience = "order"
	// AudienceLeave carries no event: User leaves the order channel named by Target.
	AudienceLeave       Audience = "leave"
)

// Envelope is the wire format on the channel. Target is empty for dispatcher broadcasts.
type Envelope struct {
	Audience Audience        `json:"audience"`
	Target   string          `json:"target,omitempty"`
	User     string          `json:"user,omitempty"`
	Event    string          `json:"event,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

func newEnvelope(audience Audience, target *kernel.UUID, event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	env := Envelope{Audience: audience, Event: event, Payload: raw}
	if target != nil {
		env.Target = target.String()
	}
	return json.Marshal(env)
}
