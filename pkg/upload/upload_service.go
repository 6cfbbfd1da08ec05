package upload

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/internal/utils/storage"
)

const maxImageSize = 10 << 20 // 10MB

type (
	// UploadService is the media sideload: validate-and-buffer happens
	// at the handler, storing is a pure file-in, reference-out call.
	UploadService interface {
		StoreImage(ctx context.Context, file *multipart.FileHeader) (domain.UploadImageResponse, error)
		DeleteImage(ctx context.Context, fileName string) error
	}

	uploadService struct {
		s3 storage.AwsS3
	}
)

func NewUploadService(s3 storage.AwsS3) UploadService {
	return &uploadService{s3: s3}
}

func (s *uploadService) StoreImage(_ context.Context, file *multipart.FileHeader) (domain.UploadImageResponse, error) {
	if file == nil {
		return domain.UploadImageResponse{}, domain.ErrNoImageProvided
	}
	if file.Size > maxImageSize {
		return domain.UploadImageResponse{}, domain.ErrInvalidImageFormat
	}
	contentType := file.Header.Get("Content-Type")
	allowed := false
	for _, t := range storage.AllowImage {
		if contentType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.UploadImageResponse{}, domain.ErrInvalidImageFormat
	}

	fileName := fmt.Sprintf("photo-%s", uuid.New().String())
	objectKey, err := s.s3.UploadFile(fileName, file, "inspections", storage.AllowImage...)
	if err != nil {
		return domain.UploadImageResponse{}, err
	}

	return domain.UploadImageResponse{
		FileName: objectKey,
		URL:      s.s3.GetPublicLinkKey(objectKey),
	}, nil
}

// DeleteImage accepts either an object key or the public link the
// upload returned.
func (s *uploadService) DeleteImage(_ context.Context, fileName string) error {
	if key := s.s3.GetObjectKeyFromLink(fileName); key != "" {
		fileName = key
	}
	return s.s3.DeleteFile(fileName)
}
