// HTTP handlers for document and image uploads.
package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/mercurylabs/mercury/internal/domain/upload"
)

// maxUploadSize bounds the multipart form for the upload endpoints.
const maxUploadSize = 100 << 20 // 100 MiB

// UploadStore persists upload bytes and metadata (domain/upload.Service).
type UploadStore interface {
	Store(ctx context.Context, kind, originalName, contentType string, r io.Reader) (upload.Stored, error)
}

// UploadHandler handles POST /api/upload/document and /api/upload/image.
type UploadHandler struct {
	store UploadStore
}

func NewUploadHandler(store UploadStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadedFile is one stored file in an upload response.
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// DocumentUploadResponse is the response body for POST /api/upload/document.
type DocumentUploadResponse struct {
	Success bool           `json:"success"`
	Files   []UploadedFile `json:"files"`
}

// ImageUploadResponse is the response body for POST /api/upload/image.
type ImageUploadResponse struct {
	Success bool           `json:"success"`
	Images  []UploadedFile `json:"images"`
}

// Document handles POST /api/upload/document: multipart field "files", one or
// more documents per request.
func (h *UploadHandler) Document(w http.ResponseWriter, r *http.Request) {
	files, err := h.storeAll(r, upload.KindDocument, "files")
	if err != nil {
		writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentUploadResponse{Success: true, Files: files})
}

// Image handles POST /api/upload/image: multipart field "images".
func (h *UploadHandler) Image(w http.ResponseWriter, r *http.Request) {
	images, err := h.storeAll(r, upload.KindImage, "images")
	if err != nil {
		writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImageUploadResponse{Success: true, Images: images})
}

// uploadError distinguishes bad requests from storage failures.
type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

func (h *UploadHandler) storeAll(r *http.Request, kind, field string) ([]UploadedFile, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, &uploadError{status: http.StatusBadRequest, message: "invalid multipart form"}
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, &uploadError{status: http.StatusBadRequest, message: field + " field is required"}
	}

	results := make([]UploadedFile, 0, len(headers))
	for _, header := range headers {
		stored, err := h.storeOne(r.Context(), kind, header)
		if err != nil {
			return nil, err
		}
		results = append(results, UploadedFile{
			Filename:     stored.Filename,
			OriginalName: stored.OriginalName,
			Size:         stored.Size,
			Path:         stored.Path,
		})
	}
	return results, nil
}

func (h *UploadHandler) storeOne(ctx context.Context, kind string, header *multipart.FileHeader) (upload.Stored, error) {
	file, err := header.Open()
	if err != nil {
		return upload.Stored{}, &uploadError{status: http.StatusBadRequest, message: "unreadable upload part"}
	}
	defer file.Close()

	stored, err := h.store.Store(ctx, kind, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		return upload.Stored{}, &uploadError{status: http.StatusInternalServerError, message: "failed to store upload"}
	}
	return stored, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	if ue, ok := err.(*uploadError); ok {
		writeError(w, ue.status, ue.message)
		return
	}
	writeError(w, http.StatusInternalServerError, "failed to store upload")
}
