package models

import "time"

// Branch is a school location. Every ledger query is scoped to one.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultBranchID is created by the seeder when no branch exists.
const DefaultBranchID = "main"
