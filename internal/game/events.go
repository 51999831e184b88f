package game

// EventType names a discrete simulation outcome that hosts react to.
type EventType string

const (
	EventLanding  EventType = "landing"
	EventSlotMiss EventType = "slot_miss"
	EventAnomaly  EventType = "anomaly"
	EventSettled  EventType = "settled"
	EventSpawned  EventType = "spawned"
)

// Event is emitted by a simulation step. Only the fields relevant to the
// type are set.
type Event struct {
	Type       EventType `json:"type"`
	Frame      uint64    `json:"frame"`
	BallID     int       `json:"ball_id,omitempty"`
	BatchID    int       `json:"batch_id,omitempty"`
	X          float64   `json:"x,omitempty"`
	Y          float64   `json:"y,omitempty"`
	SlotIndex  int       `json:"slot_index"`
	Multiplier float64   `json:"multiplier,omitempty"`
	Wager      float64   `json:"wager,omitempty"`
	Payout     float64   `json:"payout,omitempty"`
	Tier       string    `json:"tier,omitempty"`
	Committed  float64   `json:"committed,omitempty"`
	Score      float64   `json:"score,omitempty"`
}

// IsTier reports whether the event is a landing in the given effect tier.
func (e Event) IsTier(t Tier) bool {
	return e.Type == EventLanding && e.Tier == t.String()
}
