package api

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/permitdesk/permitdesk/db"
	"github.com/permitdesk/permitdesk/internal/permits"
	"github.com/qri-io/jsonschema"
)

type PackagesHandler struct {
	svc          *permits.Service
	createSchema *jsonschema.Schema
}

func NewPackagesHandler(svc *permits.Service) (*PackagesHandler, error) {
	rs, err := compileSchema("schemas/package_create_v1.json")
	if err != nil {
		return nil, err
	}
	return &PackagesHandler{svc: svc, createSchema: rs}, nil
}

// compileSchema loads and compiles an embedded JSON schema.
func compileSchema(path string) (*jsonschema.Schema, error) {
	b, err := fs.ReadFile(db.Schemas, path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return rs, nil
}

type createPackageRequest struct {
	ProjectName    string  `json:"project_name"`
	Address        string  `json:"address"`
	PermitType     string  `json:"permit_type"`
	Status         *string `json:"status,omitempty"`
	Description    *string `json:"description,omitempty"`
	ClientName     *string `json:"client_name,omitempty"`
	ClientEmail    *string `json:"client_email,omitempty"`
	ClientPhone    *string `json:"client_phone,omitempty"`
	EstimatedValue *int64  `json:"estimated_value,omitempty"`
	AssignedTo     *int64  `json:"assigned_to,omitempty"`
}

type updatePackageRequest struct {
	ProjectName    *string `json:"project_name,omitempty"`
	Address        *string `json:"address,omitempty"`
	PermitType     *string `json:"permit_type,omitempty"`
	Status         *string `json:"status,omitempty"`
	Description    *string `json:"description,omitempty"`
	ClientName     *string `json:"client_name,omitempty"`
	ClientEmail    *string `json:"client_email,omitempty"`
	ClientPhone    *string `json:"client_phone,omitempty"`
	EstimatedValue *int64  `json:"estimated_value,omitempty"`
	AssignedTo     *int64  `json:"assigned_to,omitempty"`
}

// CreatePackage validates the payload shape against the embedded schema,
// then hands the input to the service, which instantiates the default
// checklist for the permit type.
func (h *PackagesHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	keyErrs, err := h.createSchema.ValidateBytes(ctx, body)
	if err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(keyErrs) > 0 {
		fields := make(map[string]string, len(keyErrs))
		for _, ke := range keyErrs {
			fields[ke.PropertyPath] = ke.Message
		}
		writeJSON(w, errorResponse{Error: "invalid input", Fields: fields}, http.StatusBadRequest)
		return
	}

	var req createPackageRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}

	in := permits.CreatePackageInput{
		ProjectName:    req.ProjectName,
		Address:        req.Address,
		PermitType:     req.PermitType,
		Status:         req.Status,
		Description:    req.Description,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		EstimatedValue: req.EstimatedValue,
		AssignedTo:     req.AssignedTo,
	}
	if uid, ok := UserIDFromContext(ctx); ok {
		in.CreatedBy = &uid
	}

	detail, err := h.svc.Create(ctx, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, detail, http.StatusCreated)
}

func (h *PackagesHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := permits.ListFilter{
		Status:     q.Get("status"),
		PermitType: q.Get("permit_type"),
		Search:     q.Get("search"),
	}

	result, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

func (h *PackagesHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, detail, http.StatusOK)
}

func (h *PackagesHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}

	detail, err := h.svc.Update(r.Context(), id, permits.UpdatePackageInput{
		ProjectName:    req.ProjectName,
		Address:        req.Address,
		PermitType:     req.PermitType,
		Status:         req.Status,
		Description:    req.Description,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    req.ClientPhone,
		EstimatedValue: req.EstimatedValue,
		AssignedTo:     req.AssignedTo,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, detail, http.StatusOK)
}

func (h *PackagesHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
