package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"hr-crud/internal/apperror"
	"hr-crud/internal/metrics"
	"hr-crud/internal/models"
	"hr-crud/internal/validation"
)

type EmployeeService struct {
	db         *gorm.DB
	minimumAge int
	now        validation.Clock
}

func NewEmployeeService(db *gorm.DB, minimumAge int) *EmployeeService {
	return &EmployeeService{
		db:         db,
		minimumAge: minimumAge,
		now:        time.Now,
	}
}

// unitOfWork runs fn in a transaction scoped to one call. It commits when fn
// returns nil and rolls back on error or panic.
func (s *EmployeeService) unitOfWork(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]EmployeeRead, error) {
	var result []EmployeeRead
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		var employees []models.Employee
		if err := tx.Preload("Department").Find(&employees).Error; err != nil {
			return fmt.Errorf("load employees: %w", err)
		}

		result = make([]EmployeeRead, 0, len(employees))
		for _, employee := range employees {
			read, err := toEmployeeRead(employee)
			if err != nil {
				return err
			}
			result = append(result, read)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id uint) (EmployeeRead, error) {
	var result EmployeeRead
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		employee, err := findEmployee(tx, id, true)
		if err != nil {
			return err
		}
		result, err = toEmployeeRead(employee)
		return err
	})
	return result, err
}

func (s *EmployeeService) NewCreateForm(ctx context.Context, mode CreateMode) (EmployeeCreateForm, error) {
	form := EmployeeCreateForm{Mode: mode}
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		departments, err := departmentOptions(tx)
		if err != nil {
			return err
		}
		form.Departments = departments
		return nil
	})
	if err != nil {
		return EmployeeCreateForm{}, err
	}
	return form, nil
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, mode CreateMode, input EmployeeCreateInput) (EmployeeRead, error) {
	if mode != CreateModeMinimal && mode != CreateModeFull {
		return EmployeeRead{}, fmt.Errorf("unknown create mode %d", mode)
	}

	var result EmployeeRead
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		errs, err := createSchema(tx, mode, s.minimumAge, s.now).Validate(ctx, input)
		if err != nil {
			return err
		}
		if !errs.Valid() {
			return apperror.Validation(errs)
		}

		employee, err := createInputToModel(input)
		if err != nil {
			return err
		}
		if err := tx.Omit("Department").Create(&employee).Error; err != nil {
			return mapDatabaseError(err)
		}

		created, err := findEmployee(tx, employee.ID, true)
		if err != nil {
			return err
		}
		result, err = toEmployeeRead(created)
		return err
	})

	observe("create_"+mode.String(), err)
	if err != nil {
		return EmployeeRead{}, err
	}
	return result, nil
}

func (s *EmployeeService) GetEditForm(ctx context.Context, id uint) (EmployeeEditForm, error) {
	var form EmployeeEditForm
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		employee, err := findEmployee(tx, id, true)
		if err != nil {
			return err
		}
		departments, err := departmentOptions(tx)
		if err != nil {
			return err
		}
		form, err = toEditForm(employee, departments)
		return err
	})
	return form, err
}

// UpdateEmployee overwrites name, age, salary and department only. Concurrent
// edits are last-write-wins.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint, input EmployeeEditInput) error {
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		employee, err := findEmployee(tx, id, false)
		if err != nil {
			return err
		}

		errs, err := editableFields(tx).Validate(ctx, input)
		if err != nil {
			return err
		}
		if !errs.Valid() {
			return apperror.Validation(errs)
		}

		updates, err := editUpdates(input)
		if err != nil {
			return err
		}
		if err := tx.Model(&employee).Updates(updates).Error; err != nil {
			return mapDatabaseError(err)
		}
		return nil
	})

	observe("update", err)
	return err
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint) error {
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		employee, err := findEmployee(tx, id, false)
		if err != nil {
			return err
		}
		if err := tx.Delete(&employee).Error; err != nil {
			return mapDatabaseError(err)
		}
		return nil
	})

	observe("delete", err)
	return err
}

// CheckEmailAvailable is read-only. An empty email is reported as available.
func (s *EmployeeService) CheckEmailAvailable(ctx context.Context, email string) (EmailAvailability, error) {
	var result EmailAvailability
	err := s.unitOfWork(ctx, func(tx *gorm.DB) error {
		messages, err := emailAvailabilitySchema(tx, email).ValidateField(ctx, FieldEmail, validation.Values{FieldEmail: email})
		if err != nil {
			return err
		}
		if len(messages) > 0 {
			result = EmailAvailability{Message: strings.Join(messages, " ")}
			return nil
		}
		result = EmailAvailability{Available: true}
		return nil
	})
	return result, err
}

func findEmployee(tx *gorm.DB, id uint, withDepartment bool) (models.Employee, error) {
	query := tx
	if withDepartment {
		query = query.Preload("Department")
	}

	var employee models.Employee
	if err := query.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Employee{}, apperror.NotFound("employee not found")
		}
		return models.Employee{}, fmt.Errorf("load employee: %w", err)
	}
	return employee, nil
}

func departmentOptions(tx *gorm.DB) ([]DepartmentOption, error) {
	var departments []models.Department
	if err := tx.Order("id ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	return toDepartmentOptions(departments), nil
}

func observe(operation string, err error) {
	result := "ok"
	switch apperror.GetCode(err) {
	case "":
	case apperror.CodeValidation:
		result = "invalid"
		metrics.ObserveValidationFailures(apperror.FieldsOf(err))
	case apperror.CodeNotFound:
		result = "not_found"
	default:
		result = "error"
	}
	metrics.ObserveOperation(operation, result)
}

func mapDatabaseError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return apperror.New(apperror.CodeConflict, "resource with the same unique attributes already exists")
		}
		if pgErr.Code == "23503" {
			return apperror.New(apperror.CodeValidation, "invalid foreign key reference")
		}
	}
	return err
}
