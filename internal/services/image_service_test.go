package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"estateBack/internal/models"
	"estateBack/utils"
)

var errUpstream = errors.New("credentials expired")

type fakeSigner struct {
	folder string
}

func (f *fakeSigner) PresignUpload(folder, filename string) (utils.UploadAuth, error) {
	f.folder = folder
	switch filename {
	case "notes.txt":
		return utils.UploadAuth{}, fmt.Errorf("%w %q", utils.ErrUnsupportedImage, ".txt")
	case "outage.png":
		return utils.UploadAuth{}, errUpstream
	}
	return utils.UploadAuth{
		UploadURL: "https://bucket/upload",
		PublicURL: "https://bucket/" + folder + "/key.png",
		Key:       folder + "/key.png",
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

func TestImageUploadAuth(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		filename string
		wantErr  error
	}{
		{"signed in", owner, "front.png", nil},
		{"anonymous", Actor{}, "front.png", models.ErrForbidden},
		{"no filename", owner, "  ", models.ErrValidation},
		{"bad type", owner, "notes.txt", models.ErrValidation},
		{"signer failure", owner, "outage.png", errUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &fakeSigner{}
			svc := &ImageService{Signer: signer}
			auth, err := svc.UploadAuth(tt.actor, tt.filename)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.wantErr == errUpstream && errors.Is(err, models.ErrValidation) {
					t.Fatalf("signer failure must not be a validation error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UploadAuth: %v", err)
			}
			if signer.folder != "listings/"+tt.actor.ID || auth.UploadURL == "" {
				t.Fatalf("folder %q auth %+v", signer.folder, auth)
			}
		})
	}

	if _, err := (&ImageService{}).UploadAuth(owner, "front.png"); err == nil {
		t.Fatal("expected error without a signer")
	}
}
