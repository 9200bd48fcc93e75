package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/CoderJeffrey/washsale-calculator/src/config"
	"github.com/CoderJeffrey/washsale-calculator/src/logger"
	"github.com/CoderJeffrey/washsale-calculator/src/parsers"
	"github.com/CoderJeffrey/washsale-calculator/src/security/validation"
	"github.com/CoderJeffrey/washsale-calculator/src/services"
	"github.com/CoderJeffrey/washsale-calculator/src/utils"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: service}
}

// HandleUpload accepts one multipart CSV upload under the "file" field,
// runs the wash-sale pipeline and writes the report JSON. Structurally
// missing input is rejected with 400; everything else either produces a
// report or an internal error.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		logger.L.Warn("File content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing upload request", "filename", fileHeader.Filename)
	report, err := h.uploadService.ProcessUpload(file)
	if err != nil {
		var schemaErr *parsers.SchemaError
		if errors.As(err, &schemaErr) {
			logger.L.Warn("Upload rejected: unusable schema", "filename", fileHeader.Filename, "error", schemaErr)
			utils.SendJSONError(w, fmt.Sprintf("Unusable file: %v", schemaErr), http.StatusBadRequest)
		} else if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Upload processing failed due to CSV parsing errors", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing CSV file: %v", err), http.StatusBadRequest)
		} else if errors.Is(err, services.ErrProcessingFailed) {
			logger.L.Warn("Upload processing failed during wash-sale evaluation", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error processing transactions in file: %v", err), http.StatusBadRequest)
		} else {
			logger.L.Error("Internal error processing upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		logger.L.Error("Error encoding JSON response for upload result", "error", err)
	}
}
