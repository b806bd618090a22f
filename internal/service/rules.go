package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hr-crud/internal/models"
	"hr-crud/internal/validation"
)

var (
	minSalary = decimal.NewFromInt(1000)
	maxSalary = decimal.NewFromInt(5000)
)

const (
	minEmployeeAge = 20
	maxEmployeeAge = 50
)

// editableFields are checked on both create and edit.
func editableFields(tx *gorm.DB) validation.Schema {
	return validation.Schema{
		validation.Field(FieldName,
			validation.Required().WithMessage("Name is mandatory"),
			validation.MinLength(3),
			validation.MaxLength(20),
		),
		validation.Field(FieldAge,
			validation.Required(),
			validation.IntRange(minEmployeeAge, maxEmployeeAge),
		),
		validation.Field(FieldSalary,
			validation.Required(),
			validation.DecimalRange(minSalary, maxSalary),
		),
		validation.Field(FieldDepartmentID,
			validation.Required(),
			validation.Reference(departmentExists(tx)),
		).Label("Department"),
	}
}

func createSchema(tx *gorm.DB, mode CreateMode, minimumAge int, now validation.Clock) validation.Schema {
	required := func(rules ...validation.Rule) []validation.Rule {
		if mode == CreateModeFull {
			return append([]validation.Rule{validation.Required()}, rules...)
		}
		return rules
	}

	minAge := validation.MinAge(minimumAge, now)
	if mode != CreateModeFull {
		minAge = minAge.Optional()
	}

	return editableFields(tx).With(
		validation.Field(FieldAddress, required(validation.Length(5, 50))...),
		validation.Field(FieldEmail, required(
			validation.MinLength(10),
			validation.MaxLength(50),
			validation.Email(),
			validation.Unique(emailTaken(tx)).WithMessage("Email already exists"),
		)...),
		validation.Field(FieldPassword, required()...),
		validation.Field(FieldConfirmPassword, required(validation.EqualTo(FieldPassword))...),
		validation.Field(FieldDOB, minAge),
	)
}

// emailAvailabilitySchema is the interactive form of the email uniqueness rule.
func emailAvailabilitySchema(tx *gorm.DB, email string) validation.Schema {
	return validation.Schema{
		validation.Field(FieldEmail,
			validation.Unique(emailTaken(tx)).WithMessage(fmt.Sprintf("Email %s already exists", email)),
		),
	}
}

func departmentSchema() validation.Schema {
	return validation.Schema{
		validation.Field(FieldName,
			validation.Required(),
			validation.MaxLength(200),
		).Label("Department Name"),
	}
}

// emailTaken ignores case: Foo@x.com and foo@x.com are the same address.
func emailTaken(tx *gorm.DB) validation.Lookup {
	return func(ctx context.Context, email string) (bool, error) {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.Employee{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error; err != nil {
			return false, fmt.Errorf("check email uniqueness: %w", err)
		}
		return count > 0, nil
	}
}

func departmentExists(tx *gorm.DB) validation.Lookup {
	return func(ctx context.Context, id string) (bool, error) {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.Department{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return false, fmt.Errorf("check department existence: %w", err)
		}
		return count > 0, nil
	}
}
