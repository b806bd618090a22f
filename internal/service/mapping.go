package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hr-crud/internal/apperror"
	"hr-crud/internal/models"
	"hr-crud/internal/validation"
)

// toEmployeeRead needs the department preloaded; a missing one is a broken
// invariant, not a user error.
func toEmployeeRead(employee models.Employee) (EmployeeRead, error) {
	if employee.Department == nil {
		return EmployeeRead{}, fmt.Errorf("employee %d has no department: %w", employee.ID, apperror.ErrDataIntegrity)
	}

	return EmployeeRead{
		ID:         employee.ID,
		Name:       employee.Name,
		Age:        employee.Age,
		Salary:     employee.Salary,
		Department: employee.Department.Name,
	}, nil
}

func toDepartmentOptions(departments []models.Department) []DepartmentOption {
	options := make([]DepartmentOption, 0, len(departments))
	for _, department := range departments {
		options = append(options, DepartmentOption{
			ID:    department.ID,
			Label: department.Name,
		})
	}
	return options
}

// createInputToModel expects input that already passed validation.
func createInputToModel(input EmployeeCreateInput) (models.Employee, error) {
	age, salary, departmentID, err := parseEditable(input.Age, input.Salary, input.DepartmentID)
	if err != nil {
		return models.Employee{}, err
	}

	employee := models.Employee{
		Name:            input.Name,
		Address:         optionalString(input.Address),
		Age:             age,
		Salary:          salary,
		Email:           optionalString(input.Email),
		Password:        optionalString(input.Password),
		ConfirmPassword: optionalString(input.ConfirmPassword),
		DepartmentID:    departmentID,
	}

	if dob := strings.TrimSpace(input.DOB); dob != "" {
		parsed, err := time.Parse(validation.DateLayout, dob)
		if err != nil {
			return models.Employee{}, fmt.Errorf("parse dob: %w", err)
		}
		employee.DOB = &parsed
	}

	return employee, nil
}

// editUpdates lists the columns an edit may overwrite; nothing else changes.
func editUpdates(input EmployeeEditInput) (map[string]interface{}, error) {
	age, salary, departmentID, err := parseEditable(input.Age, input.Salary, input.DepartmentID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"name":          input.Name,
		"age":           age,
		"salary":        salary,
		"department_id": departmentID,
	}, nil
}

func toEditForm(employee models.Employee, departments []DepartmentOption) (EmployeeEditForm, error) {
	if employee.Department == nil {
		return EmployeeEditForm{}, fmt.Errorf("employee %d has no department: %w", employee.ID, apperror.ErrDataIntegrity)
	}

	return EmployeeEditForm{
		ID: employee.ID,
		Input: EmployeeEditInput{
			Name:         employee.Name,
			Age:          strconv.Itoa(employee.Age),
			Salary:       employee.Salary.String(),
			DepartmentID: strconv.FormatUint(uint64(employee.DepartmentID), 10),
		},
		DepartmentName: employee.Department.Name,
		Departments:    departments,
	}, nil
}

func parseEditable(rawAge, rawSalary, rawDepartmentID string) (int, decimal.Decimal, uint, error) {
	age, err := strconv.Atoi(strings.TrimSpace(rawAge))
	if err != nil {
		return 0, decimal.Decimal{}, 0, fmt.Errorf("parse age: %w", err)
	}
	salary, err := decimal.NewFromString(strings.TrimSpace(rawSalary))
	if err != nil {
		return 0, decimal.Decimal{}, 0, fmt.Errorf("parse salary: %w", err)
	}
	departmentID, err := strconv.ParseUint(strings.TrimSpace(rawDepartmentID), 10, 64)
	if err != nil {
		return 0, decimal.Decimal{}, 0, fmt.Errorf("parse department id: %w", err)
	}
	return age, salary, uint(departmentID), nil
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
