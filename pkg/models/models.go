package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Package workflow statuses.
const (
	StatusDraft         = "draft"
	StatusInProgress    = "in_progress"
	StatusReadyToSubmit = "ready_to_submit"
	StatusSubmitted     = "submitted"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" validate:"required"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	Role         string `json:"role" db:"role"`
	Approved     bool   `json:"approved" db:"approved"`
	Updated      int64  `json:"updated" db:"updated"`
	PasswordHash string `json:"-" db:"password_hash"`
}

type PermitPackage struct {
	ID             int64   `json:"id" db:"id"`
	ProjectName    string  `json:"project_name" db:"project_name" validate:"required"`
	Address        string  `json:"address" db:"address" validate:"required"`
	PermitType     string  `json:"permit_type" db:"permit_type" validate:"required"`
	Status         string  `json:"status" db:"status"`
	Description    *string `json:"description,omitempty" db:"description"`
	ClientName     *string `json:"client_name,omitempty" db:"client_name"`
	ClientEmail    *string `json:"client_email,omitempty" db:"client_email"`
	ClientPhone    *string `json:"client_phone,omitempty" db:"client_phone"`
	EstimatedValue *int64  `json:"estimated_value,omitempty" db:"estimated_value"` // minor currency units (cents)
	CreatedBy      *int64  `json:"created_by,omitempty" db:"created_by"`
	AssignedTo     *int64  `json:"assigned_to,omitempty" db:"assigned_to"`
	Created        int64   `json:"created" db:"created"`
	Updated        int64   `json:"updated" db:"updated"`
	SubmittedAt    *int64  `json:"submitted_at,omitempty" db:"submitted_at"`
}

type PackageDocument struct {
	ID           int64   `json:"id" db:"id"`
	PackageID    int64   `json:"package_id" db:"package_id"`
	DocumentName string  `json:"document_name" db:"document_name" validate:"required"`
	IsRequired   bool    `json:"is_required" db:"is_required"`
	IsCompleted  bool    `json:"is_completed" db:"is_completed"`
	FileName     *string `json:"file_name,omitempty" db:"file_name"`
	FileSize     *int64  `json:"file_size,omitempty" db:"file_size"`
	FilePath     *string `json:"file_path,omitempty" db:"file_path"`
	MimeType     *string `json:"mime_type,omitempty" db:"mime_type"`
	UploadedAt   *int64  `json:"uploaded_at,omitempty" db:"uploaded_at"`
	Notes        *string `json:"notes,omitempty" db:"notes"`
}

type Setting struct {
	Key     string `json:"key" db:"key"`
	Value   string `json:"value" db:"value"`
	Updated int64  `json:"updated" db:"updated"`
}
