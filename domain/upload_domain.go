package domain

import (
	"errors"
)

var (
	MessageSuccessUploadImage = "image uploaded successfully"
	MessageSuccessDeleteImage = "image deleted successfully"

	MessageFailedUploadImage = "failed to upload image"
	MessageFailedDeleteImage = "failed to delete image"

	ErrNoImageProvided    = errors.New("no image provided")
	ErrInvalidImageFormat = errors.New("invalid image format, only JPEG, PNG and WebP are allowed")
)

type (
	UploadImageResponse struct {
		FileName string `json:"file_name"`
		URL      string `json:"url"`
	}
)
