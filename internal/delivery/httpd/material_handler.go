package httpd

import (
	"net/http"

	"github.com/RubachokBoss/career-plan-service/internal/service"
)

// UploadMaterialDocument принимает multipart-файл в поле "file" и
// прикрепляет его к учебному материалу.
func (h *Handler) UploadMaterialDocument(w http.ResponseWriter, r *http.Request) {
	materialID, ok := getIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid material ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "File too large or invalid form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "File is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	material, err := h.materialService.UploadMaterialDocument(r.Context(), &service.UploadDocumentRequest{
		MaterialID:  materialID,
		FileName:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		h.handleServiceError(w, err, "Failed to upload document")
		return
	}

	writeSuccess(w, material)
}
