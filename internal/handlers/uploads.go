package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hopebridge/intake/internal/config"
	svc "github.com/hopebridge/intake/internal/services"
)

const imageMemoryLimit = 32 << 20 // form parse buffer, not a size cap

// POST /api/uploads/image (admin)
//
// Validates the MIME prefix before anything reaches the blob store: a
// rejected file must leave no blob behind.
func UploadImage(w http.ResponseWriter, r *http.Request) {
	uploadFile(w, r, "image/", "images", 0)
}

// POST /api/uploads/video (admin)
func UploadVideo(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(config.Get().MaxVideoUploadMB) << 20
	uploadFile(w, r, "video/", "videos", maxBytes)
}

func uploadFile(w http.ResponseWriter, r *http.Request, mimePrefix, dir string, maxBytes int64) {
	if err := r.ParseMultipartForm(imageMemoryLimit); err != nil {
		fail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, mimePrefix) {
		fail(w, http.StatusBadRequest, "Invalid file type. Only "+strings.TrimSuffix(mimePrefix, "/")+"s are allowed.")
		return
	}
	if maxBytes > 0 && header.Size > maxBytes {
		fail(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	url, err := svc.Uploads().Save(dir, header.Filename, file)
	if err != nil {
		zap.L().Error("upload failed", zap.String("file", header.Filename), zap.Error(err))
		fail(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"url":      url,
		"size":     header.Size,
		"mimeType": contentType,
	})
}
