package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "inventory:write"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivInventoryRead  = "inventory:read"
	PrivInventoryWrite = "inventory:write"
	PrivSalesRead      = "sales:read"
	PrivSalesCreate    = "sales:create"
	PrivBackupView     = "backup:view"
	PrivBackupCreate   = "backup:create"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivInventoryRead, Name: "Read Inventory"},
	{Code: PrivInventoryWrite, Name: "Overwrite Inventory"},
	{Code: PrivSalesRead, Name: "Read Sales"},
	{Code: PrivSalesCreate, Name: "Append Sale"},
	{Code: PrivBackupView, Name: "View Backups"},
	{Code: PrivBackupCreate, Name: "Create Backup"},
}
