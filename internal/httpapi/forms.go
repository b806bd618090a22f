package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"hr-crud/internal/service"
)

// formValue accepts a JSON string, number or null and keeps its text, so
// JSON and urlencoded submissions reach the service in the same shape.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("expected string or number")
		}
		*v = formValue(n.String())
	}
	return nil
}

type createEmployeeRequest struct {
	Name            formValue `json:"name"`
	Address         formValue `json:"address"`
	Age             formValue `json:"age"`
	Salary          formValue `json:"salary"`
	Email           formValue `json:"email"`
	Password        formValue `json:"password"`
	ConfirmPassword formValue `json:"confirmPassword"`
	DOB             formValue `json:"dob"`
	DepartmentID    formValue `json:"departmentId"`
}

type editEmployeeRequest struct {
	ID           formValue `json:"id"`
	Name         formValue `json:"name"`
	Age          formValue `json:"age"`
	Salary       formValue `json:"salary"`
	DepartmentID formValue `json:"departmentId"`
}

type emailAvailabilityRequest struct {
	Email formValue `json:"email"`
}

type createDepartmentRequest struct {
	Name formValue `json:"name"`
}

func parseCreateInput(r *http.Request) (service.EmployeeCreateInput, error) {
	if isJSONBody(r) {
		var req createEmployeeRequest
		if err := decodeJSON(r, &req); err != nil {
			return service.EmployeeCreateInput{}, err
		}
		return service.EmployeeCreateInput{
			Name:            string(req.Name),
			Address:         string(req.Address),
			Age:             string(req.Age),
			Salary:          string(req.Salary),
			Email:           string(req.Email),
			Password:        string(req.Password),
			ConfirmPassword: string(req.ConfirmPassword),
			DOB:             string(req.DOB),
			DepartmentID:    string(req.DepartmentID),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return service.EmployeeCreateInput{}, errors.New("invalid form body")
	}
	form := r.PostForm
	return service.EmployeeCreateInput{
		Name:            form.Get(service.FieldName),
		Address:         form.Get(service.FieldAddress),
		Age:             form.Get(service.FieldAge),
		Salary:          form.Get(service.FieldSalary),
		Email:           form.Get(service.FieldEmail),
		Password:        form.Get(service.FieldPassword),
		ConfirmPassword: form.Get(service.FieldConfirmPassword),
		DOB:             form.Get(service.FieldDOB),
		DepartmentID:    form.Get(service.FieldDepartmentID),
	}, nil
}

// parseEditInput ignores any submitted id; the route decides which employee is edited.
func parseEditInput(r *http.Request) (service.EmployeeEditInput, error) {
	if isJSONBody(r) {
		var req editEmployeeRequest
		if err := decodeJSON(r, &req); err != nil {
			return service.EmployeeEditInput{}, err
		}
		return service.EmployeeEditInput{
			Name:         string(req.Name),
			Age:          string(req.Age),
			Salary:       string(req.Salary),
			DepartmentID: string(req.DepartmentID),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return service.EmployeeEditInput{}, errors.New("invalid form body")
	}
	form := r.PostForm
	return service.EmployeeEditInput{
		Name:         form.Get(service.FieldName),
		Age:          form.Get(service.FieldAge),
		Salary:       form.Get(service.FieldSalary),
		DepartmentID: form.Get(service.FieldDepartmentID),
	}, nil
}

func parseDepartmentInput(r *http.Request) (service.DepartmentCreateInput, error) {
	if isJSONBody(r) {
		var req createDepartmentRequest
		if err := decodeJSON(r, &req); err != nil {
			return service.DepartmentCreateInput{}, err
		}
		return service.DepartmentCreateInput{Name: string(req.Name)}, nil
	}

	if err := r.ParseForm(); err != nil {
		return service.DepartmentCreateInput{}, errors.New("invalid form body")
	}
	return service.DepartmentCreateInput{Name: r.PostForm.Get(service.FieldName)}, nil
}
