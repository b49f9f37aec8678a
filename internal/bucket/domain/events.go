package domain

// Routing keys.
const (
	RoutingKeyItemsChanged   = "bucket.items.changed"
	RoutingKeyProximityAlert = "bucket.proximity.alert"
)

// Change reasons carried by ItemsChanged.
const (
	ChangeAdded     = "added"
	ChangeUpdated   = "updated"
	ChangeCompleted = "completed"
	ChangeReopened  = "reopened"
	ChangeRemoved   = "removed"
	ChangeImported  = "imported"
	ChangeReplaced  = "replaced"
	ChangeRestored  = "restored"
)

// ItemsChanged is published after every committed mutation of the item list.
type ItemsChanged struct {
	Reason  string   `json:"reason"`
	ItemIDs []string `json:"itemIds,omitempty"`
	Total   int      `json:"total,omitempty"`
}
