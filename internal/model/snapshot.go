package model

import "time"

// Snapshot is the whole local state as one document. It is both the
// persisted blob and the export artifact.
type Snapshot struct {
	Clients    []Client   `json:"clients"`
	Products   []Product  `json:"products"`
	Sales      []Sale     `json:"sales"`
	Employees  []Employee `json:"employees"`
	Suppliers  []Supplier `json:"suppliers"`
	ExportDate *time.Time `json:"export_date,omitempty"`
}
