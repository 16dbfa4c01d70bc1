package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/permitdesk/permitdesk/internal/permits"
	"github.com/permitdesk/permitdesk/internal/storage"
)

type DocumentsHandler struct {
	svc   *permits.Service
	store *storage.Store
}

func NewDocumentsHandler(svc *permits.Service, store *storage.Store) *DocumentsHandler {
	return &DocumentsHandler{svc: svc, store: store}
}

type addDocumentRequest struct {
	DocumentName string  `json:"document_name"`
	IsRequired   bool    `json:"is_required"`
	Notes        *string `json:"notes,omitempty"`
}

type updateDocumentRequest struct {
	DocumentName *string `json:"document_name,omitempty"`
	IsRequired   *bool   `json:"is_required,omitempty"`
	IsCompleted  *bool   `json:"is_completed,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// AddDocument appends a checklist item to a package.
func (h *DocumentsHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	packageID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req addDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.AddDocument(r.Context(), packageID, permits.AddDocumentInput{
		DocumentName: req.DocumentName,
		IsRequired:   req.IsRequired,
		Notes:        req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, doc, http.StatusCreated)
}

// UpdateDocument toggles completion or edits checklist item metadata.
func (h *DocumentsHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid json", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.UpdateDocument(r.Context(), id, permits.UpdateDocumentInput{
		DocumentName: req.DocumentName,
		IsRequired:   req.IsRequired,
		IsCompleted:  req.IsCompleted,
		Notes:        req.Notes,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, doc, http.StatusOK)
}

// DeleteDocument removes the checklist item and any stored file.
func (h *DocumentsHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	doc, err := h.svc.GetDocument(ctx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := h.svc.DeleteDocument(ctx, id); err != nil {
		respondServiceError(w, err)
		return
	}
	if doc.FilePath != nil {
		h.store.Remove(*doc.FilePath)
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadFile stores the multipart upload and attaches its metadata to the
// document. Nothing is left orphaned on disk: a file stored for a document
// that vanished is removed again, as is a previously attached file that a
// re-upload supersedes.
func (h *DocumentsHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// remember any previously attached file so a re-upload under a new
	// name does not leave the old one orphaned on disk
	existing, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	oldPath := ""
	if existing.FilePath != nil {
		oldPath = *existing.FilePath
	}

	path, size, err := h.store.Save(id, header.Filename, file)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			writeError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		logger.Error("store upload", "err", err)
		writeError(w, "failed to store file", http.StatusInternalServerError)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc, err := h.svc.AttachFile(r.Context(), id, permits.FileMetadata{
		FileName: header.Filename,
		FileSize: size,
		FilePath: path,
		MimeType: mimeType,
	})
	if err != nil {
		var nf *permits.NotFoundError
		if errors.As(err, &nf) {
			h.store.Remove(path)
		}
		respondServiceError(w, err)
		return
	}
	if oldPath != "" && oldPath != path {
		h.store.Remove(oldPath)
	}

	writeJSON(w, doc, http.StatusOK)
}

// DownloadFile streams the stored file back to the client.
func (h *DocumentsHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if doc.FilePath == nil || doc.FileName == nil {
		writeError(w, "document has no attached file", http.StatusNotFound)
		return
	}

	f, err := h.store.Open(*doc.FilePath)
	if err != nil {
		logger.Error("open stored file", "err", err)
		writeError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	if doc.MimeType != nil {
		w.Header().Set("Content-Type", *doc.MimeType)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+*doc.FileName+`"`)
	if _, err := io.Copy(w, f); err != nil {
		logger.Error("stream file", "err", err)
	}
}

// DeleteFile detaches and removes the stored file; the document reverts
// to incomplete.
func (h *DocumentsHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	doc, err := h.svc.GetDocument(ctx, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	oldPath := ""
	if doc.FilePath != nil {
		oldPath = *doc.FilePath
	}

	if _, err := h.svc.RemoveFile(ctx, id); err != nil {
		respondServiceError(w, err)
		return
	}
	h.store.Remove(oldPath)

	w.WriteHeader(http.StatusNoContent)
}
