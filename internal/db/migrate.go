package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type schemaMigration struct {
	Version   string    `gorm:"primaryKey;type:varchar(200)"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	Version string
	Up      func(tx *gorm.DB) error
}

// migrations are applied in slice order; never reorder or edit an applied entry.
var migrations = []migration{
	{Version: "20260223220520_initial_create", Up: initialCreate},
	{Version: "20260223221030_employee_add_dob", Up: employeeAddDOB},
}

// Migrate applies every migration not yet recorded in schema_migrations.
// Each migration and its bookkeeping row share one transaction.
func Migrate(ctx context.Context, database *gorm.DB) error {
	if err := database.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied, err := Applied(ctx, database)
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}

	for _, m := range migrations {
		if done[m.Version] {
			continue
		}

		err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.Version, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Version, err)
		}
	}

	return nil
}

// Applied lists the recorded migration versions in order.
func Applied(ctx context.Context, database *gorm.DB) ([]string, error) {
	var versions []string
	if err := database.WithContext(ctx).
		Model(&schemaMigration{}).
		Order("version ASC").
		Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	return versions, nil
}

// Table snapshots as of each migration. They must not follow later changes
// to the models package.

type initialDepartment struct {
	ID        uint              `gorm:"primaryKey"`
	Name      string            `gorm:"type:varchar(200);not null"`
	Employees []initialEmployee `gorm:"foreignKey:DepartmentID;references:ID;constraint:OnDelete:CASCADE"`
}

func (initialDepartment) TableName() string { return "departments" }

type initialEmployee struct {
	ID              uint               `gorm:"primaryKey"`
	Name            string             `gorm:"type:varchar(200);not null"`
	Address         *string            `gorm:"type:varchar(200)"`
	Age             int                `gorm:"not null"`
	Salary          decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Email           *string            `gorm:"type:varchar(200);index"`
	Password        *string            `gorm:"type:varchar(200)"`
	ConfirmPassword *string            `gorm:"type:varchar(200)"`
	DepartmentID    uint               `gorm:"not null;index"`
	Department      *initialDepartment `gorm:"foreignKey:DepartmentID"`
}

func (initialEmployee) TableName() string { return "employees" }

type employeeWithDOB struct {
	DOB *time.Time `gorm:"column:dob;type:date"`
}

func (employeeWithDOB) TableName() string { return "employees" }

func initialCreate(tx *gorm.DB) error {
	if err := tx.Migrator().CreateTable(&initialDepartment{}, &initialEmployee{}); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	departments := []initialDepartment{
		{ID: 1, Name: "SD"},
		{ID: 2, Name: "UI"},
		{ID: 3, Name: "Mob"},
		{ID: 4, Name: "UX"},
	}
	if err := tx.Omit("Employees").Create(&departments).Error; err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}

	// Salaries above 5000 predate the salary range rule and are kept as-is.
	employees := []initialEmployee{
		{ID: 1, Name: "Ahmed", Age: 26, Salary: decimal.NewFromInt(1234), DepartmentID: 1},
		{ID: 2, Name: "Mohamed", Age: 36, Salary: decimal.NewFromInt(2234), DepartmentID: 2},
		{ID: 3, Name: "Sara", Age: 46, Salary: decimal.NewFromInt(4234), DepartmentID: 3},
		{ID: 4, Name: "Omar", Age: 25, Salary: decimal.NewFromInt(5234), DepartmentID: 4},
		{ID: 5, Name: "Ali", Age: 23, Salary: decimal.NewFromInt(6234), DepartmentID: 1},
		{ID: 6, Name: "Mai", Age: 36, Salary: decimal.NewFromInt(7234), DepartmentID: 2},
		{ID: 7, Name: "Ramy", Age: 49, Salary: decimal.NewFromInt(8234), DepartmentID: 3},
		{ID: 8, Name: "Hamada", Age: 18, Salary: decimal.NewFromInt(9234), DepartmentID: 4},
		{ID: 9, Name: "Hatem", Age: 26, Salary: decimal.NewFromInt(10234), DepartmentID: 1},
		{ID: 10, Name: "Osama", Age: 25, Salary: decimal.NewFromInt(17234), DepartmentID: 2},
	}
	if err := tx.Omit("Department").Create(&employees).Error; err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}

	return syncSequences(tx, "departments", "employees")
}

func employeeAddDOB(tx *gorm.DB) error {
	if tx.Migrator().HasColumn(&employeeWithDOB{}, "DOB") {
		return nil
	}
	if err := tx.Migrator().AddColumn(&employeeWithDOB{}, "DOB"); err != nil {
		return fmt.Errorf("add dob column: %w", err)
	}
	return nil
}

// syncSequences moves Postgres identity sequences past explicitly seeded ids.
func syncSequences(tx *gorm.DB, tables ...string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range tables {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))", table, table)
		if err := tx.Exec(query).Error; err != nil {
			return fmt.Errorf("sync %s sequence: %w", table, err)
		}
	}
	return nil
}
