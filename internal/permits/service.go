package permits

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/permitdesk/permitdesk/pkg/models"
	"github.com/permitdesk/permitdesk/pkg/repository"
)

// Service orchestrates package and checklist operations. It is the single
// place where status changes are validated; handlers never bypass it.
type Service struct {
	packages  repository.PackageRepo
	documents repository.DocumentRepo
	logger    *slog.Logger
}

func NewService(pr repository.PackageRepo, dr repository.DocumentRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{packages: pr, documents: dr, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// PackageDetail is the read model for a single package: the row, its
// checklist and the derived progress, plus the advisory next status.
type PackageDetail struct {
	models.PermitPackage
	Documents []models.PackageDocument `json:"documents"`
	Progress
	SuggestedStatus string `json:"suggested_status,omitempty"`
}

// PackageSummary is the list read model; documents are omitted but the
// derived progress is always present.
type PackageSummary struct {
	models.PermitPackage
	Progress
}

type ListStats struct {
	Total         int `json:"total"`
	Draft         int `json:"draft"`
	InProgress    int `json:"in_progress"`
	ReadyToSubmit int `json:"ready_to_submit"`
	Submitted     int `json:"submitted"`
}

type ListFilter struct {
	Status     string
	PermitType string
	Search     string
}

type ListResult struct {
	Packages []PackageSummary `json:"packages"`
	Stats    ListStats        `json:"stats"`
}

type CreatePackageInput struct {
	ProjectName    string
	Address        string
	PermitType     string
	Status         *string
	Description    *string
	ClientName     *string
	ClientEmail    *string
	ClientPhone    *string
	EstimatedValue *int64
	CreatedBy      *int64
	AssignedTo     *int64
}

type UpdatePackageInput struct {
	ProjectName    *string
	Address        *string
	PermitType     *string
	Status         *string
	Description    *string
	ClientName     *string
	ClientEmail    *string
	ClientPhone    *string
	EstimatedValue *int64
	AssignedTo     *int64
}

type AddDocumentInput struct {
	DocumentName string
	IsRequired   bool
	Notes        *string
}

type UpdateDocumentInput struct {
	DocumentName *string
	IsRequired   *bool
	IsCompleted  *bool
	Notes        *string
}

// FileMetadata describes an upload already stored by the caller; attaching
// it marks the document completed.
type FileMetadata struct {
	FileName string
	FileSize int64
	FilePath string
	MimeType string
}

// Create validates the input, persists the package and instantiates the
// default checklist for its permit type, if one exists.
func (s *Service) Create(ctx context.Context, in CreatePackageInput) (*PackageDetail, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.ProjectName) == "" {
		fields["project_name"] = "is required"
	}
	if strings.TrimSpace(in.Address) == "" {
		fields["address"] = "is required"
	}
	if strings.TrimSpace(in.PermitType) == "" {
		fields["permit_type"] = "is required"
	}
	status := models.StatusDraft
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			fields["status"] = "must be one of draft, in_progress, ready_to_submit, submitted"
		} else {
			status = *in.Status
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	p := &models.PermitPackage{
		ProjectName:    strings.TrimSpace(in.ProjectName),
		Address:        strings.TrimSpace(in.Address),
		PermitType:     strings.TrimSpace(in.PermitType),
		Status:         status,
		Description:    in.Description,
		ClientName:     in.ClientName,
		ClientEmail:    in.ClientEmail,
		ClientPhone:    in.ClientPhone,
		EstimatedValue: in.EstimatedValue,
		CreatedBy:      in.CreatedBy,
		AssignedTo:     in.AssignedTo,
	}
	if status == models.StatusSubmitted {
		ts := now()
		p.SubmittedAt = &ts
	}

	id, err := s.packages.CreatePackage(ctx, p)
	if err != nil {
		return nil, &RepositoryError{Op: "create package", Err: err}
	}
	p.ID = id

	docs := make([]models.PackageDocument, 0)
	for _, item := range checklistTemplate(p.PermitType) {
		d := models.PackageDocument{
			PackageID:    id,
			DocumentName: item.Name,
			IsRequired:   item.Required,
			IsCompleted:  false,
		}
		docID, err := s.documents.CreateDocument(ctx, &d)
		if err != nil {
			return nil, &RepositoryError{Op: "create checklist document", Err: err}
		}
		d.ID = docID
		docs = append(docs, d)
	}

	s.logger.Info("package created",
		slog.Int64("id", id),
		slog.String("permit_type", p.PermitType),
		slog.Int("documents", len(docs)),
	)

	return s.detail(p, docs), nil
}

// Get returns a package with its documents and freshly computed progress.
func (s *Service) Get(ctx context.Context, id int64) (*PackageDetail, error) {
	p, err := s.packages.GetPackage(ctx, id)
	if err != nil {
		return nil, &RepositoryError{Op: "get package", Err: err}
	}
	if p == nil {
		return nil, &NotFoundError{Resource: "package", ID: id}
	}

	docs, err := s.documents.ListByPackage(ctx, id)
	if err != nil {
		return nil, &RepositoryError{Op: "list package documents", Err: err}
	}

	return s.detail(p, docs), nil
}

// List returns packages matching the filter, each with derived progress,
// plus per-status counts over the whole collection. The stats are not
// narrowed by the filter so dashboard tiles stay stable while searching.
func (s *Service) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	all, err := s.packages.ListPackages(ctx)
	if err != nil {
		return nil, &RepositoryError{Op: "list packages", Err: err}
	}

	var stats ListStats
	stats.Total = len(all)
	for _, p := range all {
		switch p.Status {
		case models.StatusDraft:
			stats.Draft++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusReadyToSubmit:
			stats.ReadyToSubmit++
		case models.StatusSubmitted:
			stats.Submitted++
		}
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]PackageSummary, 0, len(all))
	for _, p := range all {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.PermitType != "" && p.PermitType != f.PermitType {
			continue
		}
		if search != "" && !matchesSearch(&p, search) {
			continue
		}

		docs, err := s.documents.ListByPackage(ctx, p.ID)
		if err != nil {
			return nil, &RepositoryError{Op: "list package documents", Err: err}
		}
		out = append(out, PackageSummary{PermitPackage: p, Progress: CalculateProgress(docs)})
	}

	return &ListResult{Packages: out, Stats: stats}, nil
}

func matchesSearch(p *models.PermitPackage, search string) bool {
	if strings.Contains(strings.ToLower(p.ProjectName), search) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Address), search) {
		return true
	}
	if p.ClientName != nil && strings.Contains(strings.ToLower(*p.ClientName), search) {
		return true
	}
	return false
}

// Update merges the provided fields onto the package. A status field is
// only accepted when the transition rules allow it; moving into submitted
// stamps submitted_at. Moving anywhere else never touches the stamp.
func (s *Service) Update(ctx context.Context, id int64, in UpdatePackageInput) (*PackageDetail, error) {
	p, err := s.packages.GetPackage(ctx, id)
	if err != nil {
		return nil, &RepositoryError{Op: "get package", Err: err}
	}
	if p == nil {
		return nil, &NotFoundError{Resource: "package", ID: id}
	}

	fields := map[string]string{}
	if in.ProjectName != nil && strings.TrimSpace(*in.ProjectName) == "" {
		fields["project_name"] = "cannot be empty"
	}
	if in.Address != nil && strings.TrimSpace(*in.Address) == "" {
		fields["address"] = "cannot be empty"
	}
	if in.PermitType != nil && strings.TrimSpace(*in.PermitType) == "" {
		fields["permit_type"] = "cannot be empty"
	}
	if in.Status != nil && !ValidStatus(*in.Status) {
		fields["status"] = "must be one of draft, in_progress, ready_to_submit, submitted"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	docs, err := s.documents.ListByPackage(ctx, id)
	if err != nil {
		return nil, &RepositoryError{Op: "list package documents", Err: err}
	}

	if in.Status != nil {
		prog := CalculateProgress(docs)
		ok, reason := CanTransition(p.Status, *in.Status, prog.CompletedDocuments, prog.TotalDocuments)
		if !ok {
			return nil, &IllegalTransitionError{From: p.Status, To: *in.Status, Reason: reason}
		}
		if *in.Status == models.StatusSubmitted && p.Status != models.StatusSubmitted {
			ts := now()
			p.SubmittedAt = &ts
		}
		p.Status = *in.Status
	}

	if in.ProjectName != nil {
		p.ProjectName = strings.TrimSpace(*in.ProjectName)
	}
	if in.Address != nil {
		p.Address = strings.TrimSpace(*in.Address)
	}
	if in.PermitType != nil {
		p.PermitType = strings.TrimSpace(*in.PermitType)
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.ClientName != nil {
		p.ClientName = in.ClientName
	}
	if in.ClientEmail != nil {
		p.ClientEmail = in.ClientEmail
	}
	if in.ClientPhone != nil {
		p.ClientPhone = in.ClientPhone
	}
	if in.EstimatedValue != nil {
		p.EstimatedValue = in.EstimatedValue
	}
	if in.AssignedTo != nil {
		p.AssignedTo = in.AssignedTo
	}

	if err := s.packages.UpdatePackage(ctx, p); err != nil {
		return nil, &RepositoryError{Op: "update package", Err: err}
	}

	return s.detail(p, docs), nil
}

// Delete removes the package; its documents go with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.packages.DeletePackage(ctx, id)
	if err != nil {
		return &RepositoryError{Op: "delete package", Err: err}
	}
	if !ok {
		return &NotFoundError{Resource: "package", ID: id}
	}

	s.logger.Info("package deleted", slog.Int64("id", id))
	return nil
}

// AddDocument appends a checklist item to an existing package.
func (s *Service) AddDocument(ctx context.Context, packageID int64, in AddDocumentInput) (*models.PackageDocument, error) {
	if strings.TrimSpace(in.DocumentName) == "" {
		return nil, &ValidationError{Fields: map[string]string{"document_name": "is required"}}
	}

	p, err := s.packages.GetPackage(ctx, packageID)
	if err != nil {
		return nil, &RepositoryError{Op: "get package", Err: err}
	}
	if p == nil {
		return nil, &NotFoundError{Resource: "package", ID: packageID}
	}

	d := &models.PackageDocument{
		PackageID:    packageID,
		DocumentName: strings.TrimSpace(in.DocumentName),
		IsRequired:   in.IsRequired,
		IsCompleted:  false,
		Notes:        in.Notes,
	}
	id, err := s.documents.CreateDocument(ctx, d)
	if err != nil {
		return nil, &RepositoryError{Op: "create document", Err: err}
	}
	d.ID = id

	return d, nil
}

// GetDocument fetches a single checklist item.
func (s *Service) GetDocument(ctx context.Context, id int64) (*models.PackageDocument, error) {
	d, err := s.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, &RepositoryError{Op: "get document", Err: err}
	}
	if d == nil {
		return nil, &NotFoundError{Resource: "document", ID: id}
	}
	return d, nil
}

// UpdateDocument edits checklist item metadata. Completion toggled here is
// independent of any attached file: a document may be marked complete with
// no file, or carry a file while marked incomplete.
func (s *Service) UpdateDocument(ctx context.Context, id int64, in UpdateDocumentInput) (*models.PackageDocument, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DocumentName != nil {
		if strings.TrimSpace(*in.DocumentName) == "" {
			return nil, &ValidationError{Fields: map[string]string{"document_name": "cannot be empty"}}
		}
		d.DocumentName = strings.TrimSpace(*in.DocumentName)
	}
	if in.IsRequired != nil {
		d.IsRequired = *in.IsRequired
	}
	if in.IsCompleted != nil {
		if *in.IsCompleted && !d.IsCompleted {
			ts := now()
			d.UploadedAt = &ts
		}
		d.IsCompleted = *in.IsCompleted
	}
	if in.Notes != nil {
		d.Notes = in.Notes
	}

	if err := s.documents.UpdateDocument(ctx, d); err != nil {
		return nil, &RepositoryError{Op: "update document", Err: err}
	}
	return d, nil
}

// AttachFile records a stored upload against the document. All four file
// fields are set together and the document becomes completed.
func (s *Service) AttachFile(ctx context.Context, id int64, meta FileMetadata) (*models.PackageDocument, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	d.FileName = &meta.FileName
	d.FileSize = &meta.FileSize
	d.FilePath = &meta.FilePath
	d.MimeType = &meta.MimeType
	d.IsCompleted = true
	ts := now()
	d.UploadedAt = &ts

	if err := s.documents.UpdateDocument(ctx, d); err != nil {
		return nil, &RepositoryError{Op: "update document", Err: err}
	}
	return d, nil
}

// RemoveFile detaches the upload: all four file fields are cleared and the
// document reverts to incomplete. This coupling is deliberate and distinct
// from the manual completion toggle.
func (s *Service) RemoveFile(ctx context.Context, id int64) (*models.PackageDocument, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	d.FileName = nil
	d.FileSize = nil
	d.FilePath = nil
	d.MimeType = nil
	d.IsCompleted = false

	if err := s.documents.UpdateDocument(ctx, d); err != nil {
		return nil, &RepositoryError{Op: "update document", Err: err}
	}
	return d, nil
}

// DeleteDocument removes a checklist item entirely.
func (s *Service) DeleteDocument(ctx context.Context, id int64) error {
	ok, err := s.documents.DeleteDocument(ctx, id)
	if err != nil {
		return &RepositoryError{Op: "delete document", Err: err}
	}
	if !ok {
		return &NotFoundError{Resource: "document", ID: id}
	}
	return nil
}

func (s *Service) detail(p *models.PermitPackage, docs []models.PackageDocument) *PackageDetail {
	prog := CalculateProgress(docs)
	return &PackageDetail{
		PermitPackage:   *p,
		Documents:       docs,
		Progress:        prog,
		SuggestedStatus: SuggestedNext(p.Status, prog.CompletedDocuments, prog.TotalDocuments),
	}
}
