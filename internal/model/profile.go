package model

import "time"

// ProfileID is the fixed key of the singleton business profile row.
const ProfileID = "main"

// BusinessProfile holds the owner's business identity shown on statements
// and fed to the assistant as context.
type BusinessProfile struct {
	ID        string `gorm:"primaryKey"` // always "main"
	Name      string `gorm:"not null"`
	Sector    string
	OwnerName string
	Address   string
	Phone     string
	Currency  string `gorm:"not null;default:'$'"`
	TaxNumber string
	TaxOffice string
	UpdatedAt time.Time
}
