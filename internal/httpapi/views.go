package httpapi

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"hr-crud/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageEmployeeList     = "employee_list"
	pageEmployeeDetails  = "employee_details"
	pageEmployeeCreate   = "employee_create"
	pageEmployeeEdit     = "employee_edit"
	pageDepartmentList   = "department_list"
	pageDepartmentCreate = "department_create"
)

var pages = []string{
	pageEmployeeList,
	pageEmployeeDetails,
	pageEmployeeCreate,
	pageEmployeeEdit,
	pageDepartmentList,
	pageDepartmentCreate,
}

type views struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"fieldErrors": func(errs map[string][]string, field string) []string {
		return errs[field]
	},
	"idString": func(id uint) string {
		return strconv.FormatUint(uint64(id), 10)
	},
	"isFull": func(mode service.CreateMode) bool {
		return mode == service.CreateModeFull
	},
	"createAction": func(mode service.CreateMode) string {
		if mode == service.CreateModeFull {
			return "/employees/create-v2"
		}
		return "/employees/create"
	},
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout.html").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		v.pages[page] = tmpl
	}
	return v, nil
}

func mustLoadViews() *views {
	v, err := loadViews()
	if err != nil {
		panic(err)
	}
	return v
}

// render buffers the page; a template error becomes a plain 500.
func (v *views) render(w http.ResponseWriter, status int, page string, data interface{}) error {
	tmpl, ok := v.pages[page]
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
