package model

import "time"

// Remote document paths.
const (
	InventoryPath = "inventory/products"
	SalesPath     = "sales"
	BackupsPath   = "backups"
)

// Document is a single overwritten JSON document addressed by path.
type Document struct {
	Path      string    `gorm:"type:varchar(255);primaryKey" json:"path"`
	Body      []byte    `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `gorm:"type:varchar(255)" json:"updated_by"`
}

// InventoryDocument is the body stored at InventoryPath.
type InventoryDocument struct {
	Products    []Product `json:"products"`
	LastUpdated time.Time `json:"last_updated"`
	UpdatedBy   string    `json:"updated_by"`
}

// RemoteSale is one entry of the append-only sales collection. Seq keeps
// insertion order; Key is the identifier handed back to writers.
type RemoteSale struct {
	Seq      uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	Key      string    `gorm:"column:sale_key;type:varchar(64);uniqueIndex;not null" json:"key"`
	Body     []byte    `gorm:"not null" json:"-"`
	SyncedAt time.Time `json:"synced_at"`
	SyncedBy string    `gorm:"type:varchar(255)" json:"synced_by"`
}

// SaleRecord is the wire form of a RemoteSale.
type SaleRecord struct {
	Key      string    `json:"key"`
	Sale     Sale      `json:"sale"`
	SyncedAt time.Time `json:"synced_at"`
	SyncedBy string    `json:"synced_by"`
}

// Backup is a point-in-time copy of inventory and sales keyed by its
// creation timestamp.
type Backup struct {
	Key       string    `gorm:"column:backup_key;type:varchar(32);primaryKey" json:"key"`
	Body      []byte    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
}

type BackupSnapshot struct {
	Key       string       `json:"key"`
	Inventory []Product    `json:"inventory"`
	Sales     []SaleRecord `json:"sales"`
	CreatedAt time.Time    `json:"created_at"`
	CreatedBy string       `json:"created_by"`
}

type BackupSummary struct {
	Key          string    `json:"key"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    string    `json:"created_by"`
	ProductCount int       `json:"product_count"`
	SaleCount    int       `json:"sale_count"`
}
