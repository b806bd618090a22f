package models

type Department struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"type:varchar(200);not null"`
	Employees []Employee `gorm:"foreignKey:DepartmentID;references:ID;constraint:OnDelete:CASCADE"`
}
