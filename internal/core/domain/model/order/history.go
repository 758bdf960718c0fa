package order

import (
	"time"

	"courierflow/internal/core/domain/model/kernel"
)

// HistoryReassigned is the audit label written in front of the new "assigned" entry
// when a dispatcher moves an order to another courier.
const HistoryReassigned = "reassigned"

// HistoryEntry is one immutable record of the audit trail.
// Status holds a status name or HistoryReassigned.
type HistoryEntry struct {
	status    string
	actorID   kernel.UUID
	actorRole kernel.Role
	at        time.Time
	notes     string
}

// NewHistoryEntry builds an entry; repositories use it to restore persisted trails.
func NewHistoryEntry(status string, actorID kernel.UUID, actorRole kernel.Role, at time.Time, notes string) HistoryEntry {
	return HistoryEntry{status: status, actorID: actorID, actorRole: actorRole, at: at, notes: notes}
}

func (h HistoryEntry) Status() string         { return h.status }
func (h HistoryEntry) ActorID() kernel.UUID   { return h.actorID }
func (h HistoryEntry) ActorRole() kernel.Role { return h.actorRole }
func (h HistoryEntry) At() time.Time          { return h.at }
func (h HistoryEntry) Notes() string          { return h.notes }
func (h HistoryEntry) HasNotes() bool         { return h.notes != "" }
