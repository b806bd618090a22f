package db

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gorm.io/gorm"

	"hr-crud/internal/config"
	"hr-crud/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := Connect(config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    "file::memory:",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = Close(database) })

	if err := Migrate(context.Background(), database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestMigrateSeedsData(t *testing.T) {
	database := openTestDB(t)

	var departments []models.Department
	if err := database.Order("id ASC").Find(&departments).Error; err != nil {
		t.Fatalf("load departments: %v", err)
	}
	if len(departments) != 4 {
		t.Fatalf("expected 4 departments, got %d", len(departments))
	}
	if departments[0].Name != "SD" || departments[3].Name != "UX" {
		t.Fatalf("unexpected department names: %+v", departments)
	}

	var employees []models.Employee
	if err := database.Preload("Department").Order("id ASC").Find(&employees).Error; err != nil {
		t.Fatalf("load employees: %v", err)
	}
	if len(employees) != 10 {
		t.Fatalf("expected 10 employees, got %d", len(employees))
	}

	ahmed := employees[0]
	if ahmed.ID != 1 || ahmed.Name != "Ahmed" || ahmed.Age != 26 || ahmed.DepartmentID != 1 {
		t.Fatalf("unexpected first employee: %+v", ahmed)
	}
	if ahmed.Department == nil || ahmed.Department.Name != "SD" {
		t.Fatalf("expected Ahmed in SD, got %+v", ahmed.Department)
	}
	if ahmed.DOB != nil {
		t.Fatalf("expected seeded DOB to be empty")
	}
	if employees[9].Salary.IntPart() != 17234 {
		t.Fatalf("expected seeded salary 17234 to survive, got %s", employees[9].Salary)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := openTestDB(t)

	if err := Migrate(context.Background(), database); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	versions, err := Applied(context.Background(), database)
	if err != nil {
		t.Fatalf("applied: %v", err)
	}
	if len(versions) != len(migrations) {
		t.Fatalf("expected %d applied migrations, got %v", len(migrations), versions)
	}
	if versions[0] != "20260223220520_initial_create" || versions[1] != "20260223221030_employee_add_dob" {
		t.Fatalf("unexpected migration order: %v", versions)
	}

	var count int64
	if err := database.Model(&models.Department{}).Count(&count).Error; err != nil {
		t.Fatalf("count departments: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected seed to run once, got %d departments", count)
	}
}

func TestDeleteDepartmentCascadesToEmployees(t *testing.T) {
	database := openTestDB(t)

	if err := database.Delete(&models.Department{}, 1).Error; err != nil {
		t.Fatalf("delete department: %v", err)
	}

	var orphaned int64
	if err := database.Model(&models.Employee{}).Where("department_id = ?", 1).Count(&orphaned).Error; err != nil {
		t.Fatalf("count employees: %v", err)
	}
	if orphaned != 0 {
		t.Fatalf("expected employees of department 1 to be removed, %d remain", orphaned)
	}

	var remaining int64
	if err := database.Model(&models.Employee{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count employees: %v", err)
	}
	if remaining != 7 {
		t.Fatalf("expected 7 employees left, got %d", remaining)
	}
}

func TestEmployeeRequiresExistingDepartment(t *testing.T) {
	database := openTestDB(t)

	employee := models.Employee{Name: "Ghost", Age: 30, DepartmentID: 99}
	if err := database.Omit("Department").Create(&employee).Error; err == nil {
		t.Fatalf("expected foreign key violation for unknown department")
	}
}

func TestSQLiteDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "file::memory:", want: "file::memory:?_pragma=foreign_keys(1)"},
		{in: "file:hr.db?cache=shared", want: "file:hr.db?cache=shared&_pragma=foreign_keys(1)"},
		{in: "file:hr.db?_pragma=foreign_keys(1)", want: "file:hr.db?_pragma=foreign_keys(1)"},
	}
	for _, tc := range cases {
		if got := sqliteDSN(tc.in); got != tc.want {
			t.Fatalf("sqliteDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
