package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is stored as submitted. Password and ConfirmPassword are kept in
// clear text, matching the records already in the table.
type Employee struct {
	ID              uint            `gorm:"primaryKey"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Address         *string         `gorm:"type:varchar(200)"`
	Age             int             `gorm:"not null"`
	Salary          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Email           *string         `gorm:"type:varchar(200);index"`
	Password        *string         `gorm:"type:varchar(200)"`
	ConfirmPassword *string         `gorm:"type:varchar(200)"`
	DOB             *time.Time      `gorm:"column:dob;type:date"`
	DepartmentID    uint            `gorm:"not null;index"`
	Department      *Department     `gorm:"foreignKey:DepartmentID"`
}
