package model

import "time"

// Server holds the inventory record for a single physical machine, keyed by
// its serial number.
type Server struct {
	ID         int       `json:"id"`
	SN         string    `json:"sn"`
	Model      string    `json:"model"`
	Vendor     string    `json:"vendor"`
	Datacenter string    `json:"datacenter"`
	Rack       string    `json:"rack"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
