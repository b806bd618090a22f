package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hr-crud/internal/apperror"
	"hr-crud/internal/models"
)

type DepartmentService struct {
	db *gorm.DB
}

func NewDepartmentService(db *gorm.DB) *DepartmentService {
	return &DepartmentService{db: db}
}

func (s *DepartmentService) ListDepartments(ctx context.Context) ([]DepartmentSummary, error) {
	summaries := []DepartmentSummary{}
	if err := s.db.WithContext(ctx).
		Model(&models.Department{}).
		Select("departments.id AS id, departments.name AS name, COUNT(employees.id) AS employee_count").
		Joins("LEFT JOIN employees ON employees.department_id = departments.id").
		Group("departments.id, departments.name").
		Order("departments.id ASC").
		Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	return summaries, nil
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, input DepartmentCreateInput) (DepartmentSummary, error) {
	var result DepartmentSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		errs, err := departmentSchema().Validate(ctx, input)
		if err != nil {
			return err
		}
		if !errs.Valid() {
			return apperror.Validation(errs)
		}

		department := models.Department{Name: input.Name}
		if err := tx.Create(&department).Error; err != nil {
			return mapDatabaseError(err)
		}

		result = DepartmentSummary{ID: department.ID, Name: department.Name}
		return nil
	})

	observe("create_department", err)
	if err != nil {
		return DepartmentSummary{}, err
	}
	return result, nil
}
