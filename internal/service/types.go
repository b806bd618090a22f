package service

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CreateMode selects how strictly a create submission is checked.
type CreateMode int

const (
	// CreateModeMinimal checks the stored fields; address, email, password
	// and date of birth are optional but validated when present.
	CreateModeMinimal CreateMode = iota + 1
	// CreateModeFull additionally requires address, email, both password
	// fields and date of birth.
	CreateModeFull
)

func (m CreateMode) String() string {
	switch m {
	case CreateModeMinimal:
		return "minimal"
	case CreateModeFull:
		return "full"
	default:
		return "unknown"
	}
}

// Form field names shared by the validation rules, the HTML forms and JSON bodies.
const (
	FieldName            = "Name"
	FieldAddress         = "Address"
	FieldAge             = "Age"
	FieldSalary          = "Salary"
	FieldEmail           = "Email"
	FieldPassword        = "Password"
	FieldConfirmPassword = "ConfirmPassword"
	FieldDOB             = "DOB"
	FieldDepartmentID    = "DepartmentId"
)

// EmployeeRead is the list and details shape. Passwords are never exposed.
type EmployeeRead struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Age        int             `json:"age"`
	Salary     decimal.Decimal `json:"salary"`
	Department string          `json:"department"`
}

type DepartmentOption struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// EmployeeCreateInput holds create form values exactly as submitted.
type EmployeeCreateInput struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	Age             string `json:"age"`
	Salary          string `json:"salary"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DOB             string `json:"dob"`
	DepartmentID    string `json:"departmentId"`
}

func (in EmployeeCreateInput) Value(field string) string {
	switch field {
	case FieldName:
		return in.Name
	case FieldAddress:
		return in.Address
	case FieldAge:
		return in.Age
	case FieldSalary:
		return in.Salary
	case FieldEmail:
		return in.Email
	case FieldPassword:
		return in.Password
	case FieldConfirmPassword:
		return in.ConfirmPassword
	case FieldDOB:
		return in.DOB
	case FieldDepartmentID:
		return in.DepartmentID
	}
	return ""
}

type EmployeeCreateForm struct {
	Mode        CreateMode          `json:"-"`
	Input       EmployeeCreateInput `json:"input"`
	Departments []DepartmentOption  `json:"departments"`
	Errors      map[string][]string `json:"errors,omitempty"`
}

// EmployeeEditInput holds the editable fields as submitted.
type EmployeeEditInput struct {
	Name         string `json:"name"`
	Age          string `json:"age"`
	Salary       string `json:"salary"`
	DepartmentID string `json:"departmentId"`
}

func (in EmployeeEditInput) Value(field string) string {
	switch field {
	case FieldName:
		return in.Name
	case FieldAge:
		return in.Age
	case FieldSalary:
		return in.Salary
	case FieldDepartmentID:
		return in.DepartmentID
	}
	return ""
}

type EmployeeEditForm struct {
	ID             uint                `json:"id"`
	Input          EmployeeEditInput   `json:"input"`
	DepartmentName string              `json:"departmentName"`
	Departments    []DepartmentOption  `json:"departments"`
	Errors         map[string][]string `json:"errors,omitempty"`
}

// EmailAvailability encodes as JSON true, or as the conflict message.
type EmailAvailability struct {
	Available bool
	Message   string
}

func (a EmailAvailability) MarshalJSON() ([]byte, error) {
	if a.Available {
		return []byte("true"), nil
	}
	return json.Marshal(a.Message)
}

type DepartmentSummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	EmployeeCount int64  `json:"employeeCount"`
}

type DepartmentCreateInput struct {
	Name string `json:"name"`
}

func (in DepartmentCreateInput) Value(field string) string {
	if field == FieldName {
		return in.Name
	}
	return ""
}

// EmployeeManager is the employee CRUD surface. Missing ids come back as
// apperror.CodeNotFound and rejected input as apperror.CodeValidation with
// per-field messages.
type EmployeeManager interface {
	ListEmployees(ctx context.Context) ([]EmployeeRead, error)
	GetEmployee(ctx context.Context, id uint) (EmployeeRead, error)
	NewCreateForm(ctx context.Context, mode CreateMode) (EmployeeCreateForm, error)
	CreateEmployee(ctx context.Context, mode CreateMode, input EmployeeCreateInput) (EmployeeRead, error)
	GetEditForm(ctx context.Context, id uint) (EmployeeEditForm, error)
	UpdateEmployee(ctx context.Context, id uint, input EmployeeEditInput) error
	DeleteEmployee(ctx context.Context, id uint) error
	CheckEmailAvailable(ctx context.Context, email string) (EmailAvailability, error)
}

type DepartmentManager interface {
	ListDepartments(ctx context.Context) ([]DepartmentSummary, error)
	CreateDepartment(ctx context.Context, input DepartmentCreateInput) (DepartmentSummary, error)
}
