package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hr-crud/internal/apperror"
	"hr-crud/internal/service"
)

const employeesPath = "/employees"

type Handler struct {
	employees   service.EmployeeManager
	departments service.DepartmentManager
	logger      *slog.Logger
	views       *views
	router      *mux.Router
}

func NewHandler(employees service.EmployeeManager, departments service.DepartmentManager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		employees:   employees,
		departments: departments,
		logger:      logger,
		views:       mustLoadViews(),
	}
	h.router = h.routes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.loggingMiddleware, metricsMiddleware, h.recoveryMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/", redirectToList).Methods(http.MethodGet)
	r.HandleFunc("/healthcheck", healthcheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	employees := r.PathPrefix(employeesPath).Subrouter()
	employees.HandleFunc("", h.handleListEmployees).Methods(http.MethodGet)
	employees.HandleFunc("/create", h.handleCreateForm(service.CreateModeMinimal)).Methods(http.MethodGet)
	employees.HandleFunc("/create", h.handleCreateEmployee(service.CreateModeMinimal)).Methods(http.MethodPost)
	employees.HandleFunc("/create-v2", h.handleCreateForm(service.CreateModeFull)).Methods(http.MethodGet)
	employees.HandleFunc("/create-v2", h.handleCreateEmployee(service.CreateModeFull)).Methods(http.MethodPost)
	employees.HandleFunc("/is-email-available", h.handleIsEmailAvailable).Methods(http.MethodGet, http.MethodPost)
	employees.HandleFunc("/delete/{id:[0-9]+}", h.handleDeleteEmployee).Methods(http.MethodGet, http.MethodPost)
	employees.HandleFunc("/{id:[0-9]+}", h.handleEmployeeDetails).Methods(http.MethodGet)
	employees.HandleFunc("/{id:[0-9]+}/edit", h.handleEditForm).Methods(http.MethodGet)
	employees.HandleFunc("/{id:[0-9]+}/edit", h.handleUpdateEmployee).Methods(http.MethodPost)

	departments := r.PathPrefix("/departments").Subrouter()
	departments.HandleFunc("", h.handleListDepartments).Methods(http.MethodGet)
	departments.HandleFunc("/create", h.handleDepartmentForm).Methods(http.MethodGet)
	departments.HandleFunc("/create", h.handleCreateDepartment).Methods(http.MethodPost)

	return r
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.ListEmployees(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, pageEmployeeList, employees)
}

func (h *Handler) handleEmployeeDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirectToList(w, r)
		return
	}

	employee, err := h.employees.GetEmployee(r.Context(), id)
	if apperror.IsNotFound(err) {
		redirectToList(w, r)
		return
	}
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, pageEmployeeDetails, employee)
}

func (h *Handler) handleCreateForm(mode service.CreateMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := h.employees.NewCreateForm(r.Context(), mode)
		if err != nil {
			h.respondWithError(w, err)
			return
		}

		h.respond(w, r, http.StatusOK, pageEmployeeCreate, form)
	}
}

func (h *Handler) handleCreateEmployee(mode service.CreateMode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseCreateInput(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		_, err = h.employees.CreateEmployee(r.Context(), mode, input)
		if apperror.GetCode(err) == apperror.CodeValidation && apperror.FieldsOf(err) != nil {
			form, formErr := h.employees.NewCreateForm(r.Context(), mode)
			if formErr != nil {
				h.respondWithError(w, formErr)
				return
			}
			form.Input = input
			form.Errors = apperror.FieldsOf(err)
			h.respond(w, r, http.StatusUnprocessableEntity, pageEmployeeCreate, form)
			return
		}
		if err != nil {
			h.respondWithError(w, err)
			return
		}

		redirectToList(w, r)
	}
}

func (h *Handler) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirectToList(w, r)
		return
	}

	form, err := h.employees.GetEditForm(r.Context(), id)
	if apperror.IsNotFound(err) {
		redirectToList(w, r)
		return
	}
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, pageEmployeeEdit, form)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirectToList(w, r)
		return
	}

	input, err := parseEditInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.employees.UpdateEmployee(r.Context(), id, input)
	switch {
	case err == nil, apperror.IsNotFound(err):
		redirectToList(w, r)
	case apperror.GetCode(err) == apperror.CodeValidation && apperror.FieldsOf(err) != nil:
		form, formErr := h.employees.GetEditForm(r.Context(), id)
		if apperror.IsNotFound(formErr) {
			redirectToList(w, r)
			return
		}
		if formErr != nil {
			h.respondWithError(w, formErr)
			return
		}
		form.Input = input
		form.Errors = apperror.FieldsOf(err)
		h.respond(w, r, http.StatusUnprocessableEntity, pageEmployeeEdit, form)
	default:
		h.respondWithError(w, err)
	}
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		redirectToList(w, r)
		return
	}

	if err := h.employees.DeleteEmployee(r.Context(), id); err != nil && !apperror.IsNotFound(err) {
		h.respondWithError(w, err)
		return
	}

	redirectToList(w, r)
}

func (h *Handler) handleIsEmailAvailable(w http.ResponseWriter, r *http.Request) {
	var email string
	if isJSONBody(r) {
		var req emailAvailabilityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		email = string(req.Email)
	} else {
		email = r.FormValue("email")
		if email == "" {
			email = r.FormValue(service.FieldEmail)
		}
	}

	availability, err := h.employees.CheckEmailAvailable(r.Context(), email)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availability)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departments.ListDepartments(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respond(w, r, http.StatusOK, pageDepartmentList, departments)
}

func (h *Handler) handleDepartmentForm(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, pageDepartmentCreate, departmentForm{})
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	input, err := parseDepartmentInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.departments.CreateDepartment(r.Context(), input)
	if apperror.GetCode(err) == apperror.CodeValidation && apperror.FieldsOf(err) != nil {
		h.respond(w, r, http.StatusUnprocessableEntity, pageDepartmentCreate, departmentForm{
			Input:  input,
			Errors: apperror.FieldsOf(err),
		})
		return
	}
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	http.Redirect(w, r, "/departments", http.StatusSeeOther)
}

type departmentForm struct {
	Input  service.DepartmentCreateInput `json:"input"`
	Errors map[string][]string           `json:"errors,omitempty"`
}

// respond writes payload as JSON for API callers and as the named page otherwise.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, page string, payload interface{}) {
	if wantsJSON(r) {
		writeJSON(w, status, payload)
		return
	}
	if err := h.views.render(w, status, page, payload); err != nil {
		h.logger.Error("render page", slog.String("page", page), slog.Any("err", err))
	}
}

func (h *Handler) respondWithError(w http.ResponseWriter, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case apperror.CodeNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case apperror.CodeConflict:
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("unexpected error", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func redirectToList(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, employeesPath, http.StatusSeeOther)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || isJSONBody(r)
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func pathID(r *http.Request) (uint, bool) {
	id64, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

func decodeJSON(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.New("invalid JSON body")
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
