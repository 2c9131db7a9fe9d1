package services

import (
	"errors"
	"fmt"
	"strings"

	"estateBack/internal/models"
	"estateBack/utils"
)

type ImageService struct {
	Signer ImageSigner
}

// UploadAuth signs an upload into the caller's own folder.
func (s *ImageService) UploadAuth(actor Actor, filename string) (utils.UploadAuth, error) {
	if actor.ID == "" {
		return utils.UploadAuth{}, fmt.Errorf("%w: sign in to upload images", models.ErrForbidden)
	}
	if strings.TrimSpace(filename) == "" {
		return utils.UploadAuth{}, fmt.Errorf("%w: filename is required", models.ErrValidation)
	}
	if s.Signer == nil {
		return utils.UploadAuth{}, fmt.Errorf("image storage is not configured")
	}
	auth, err := s.Signer.PresignUpload("listings/"+actor.ID, filename)
	if errors.Is(err, utils.ErrUnsupportedImage) {
		return utils.UploadAuth{}, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if err != nil {
		return utils.UploadAuth{}, fmt.Errorf("presign upload: %w", err)
	}
	return auth, nil
}
