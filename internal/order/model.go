package order

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known order statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDelivered
}

// ConfirmedBy values for the two built-in confirmation paths. The staff
// override path may carry an arbitrary actor label instead.
const (
	ConfirmedByNone   = "none"
	ConfirmedByClient = "client"
	ConfirmedByStaff  = "staff"
)

// CartLine is one dish in an in-progress cart. It snapshots the unit price at
// the moment the dish was picked, so later menu edits never change a cart.
type CartLine struct {
	Dish      string `json:"dish"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

func (l CartLine) Total() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// Order is the durable record of a confirmed cart. Status and ConfirmedBy are
// the only fields that may change after creation.
type Order struct {
	ID           int64     `json:"id"`
	Identity     string    `json:"identity"`
	ItemsSummary string    `json:"items_summary"`
	Total        int64     `json:"total"`
	Address      string    `json:"address"`
	Status       Status    `json:"status"`
	ConfirmedBy  string    `json:"confirmed_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
