package enum

// ItemStatus represents the kitchen workflow status of a receipt item
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPreparing ItemStatus = "preparing"
	ItemStatusReady     ItemStatus = "ready"
	ItemStatusDone      ItemStatus = "done"
)

// itemStatusTransitions is the allow-list for the kitchen workflow:
// pending -> preparing -> ready -> done, with done terminal.
var itemStatusTransitions = map[ItemStatus][]ItemStatus{
	ItemStatusPending:   {ItemStatusPreparing},
	ItemStatusPreparing: {ItemStatusReady},
	ItemStatusReady:     {ItemStatusDone},
	ItemStatusDone:      {},
}

// Valid reports whether the status is a known workflow status
func (s ItemStatus) Valid() bool {
	_, ok := itemStatusTransitions[s]
	return ok
}

// AllowedTransitions returns the statuses reachable from the current status
func (s ItemStatus) AllowedTransitions() []ItemStatus {
	return itemStatusTransitions[s]
}

// CanTransitionTo reports whether the target status is reachable in one step
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	for _, allowed := range itemStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
