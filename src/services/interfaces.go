package services

import (
	"errors"
	"io"

	"github.com/CoderJeffrey/washsale-calculator/src/models"
)

var (
	// ErrParsingFailed wraps any failure to turn the uploaded bytes into a
	// usable trade event table, including schema errors.
	ErrParsingFailed = errors.New("parsing failed")
	// ErrProcessingFailed wraps failures inside the wash-sale computation.
	ErrProcessingFailed = errors.New("processing failed")
)

// UploadService defines the interface for the core upload processing logic:
// one uploaded file in, one wash-sale report out.
type UploadService interface {
	ProcessUpload(fileReader io.Reader) (*models.WashSaleReport, error)
}
