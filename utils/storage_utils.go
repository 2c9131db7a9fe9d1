package utils

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// StorageConfig points at an S3 compatible bucket.
type StorageConfig struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	TTL       time.Duration
}

// Presigner issues short lived upload URLs for listing images.
type Presigner struct {
	client *s3.S3
	cfg    StorageConfig
}

// UploadAuth is returned to the browser, which PUTs the file to UploadURL and
// stores PublicURL on the listing.
type UploadAuth struct {
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewPresigner(cfg StorageConfig) (*Presigner, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is not configured")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return &Presigner{client: s3.New(sess), cfg: cfg}, nil
}

// ErrUnsupportedImage is returned for file extensions that are not images.
var ErrUnsupportedImage = errors.New("unsupported image type")

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// PresignUpload signs a PUT for a new object under folder. The stored key is
// randomised so clients cannot overwrite each other's files.
func (p *Presigner) PresignUpload(folder, filename string) (UploadAuth, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedImageTypes[ext]
	if !ok {
		return UploadAuth{}, fmt.Errorf("%w %q", ErrUnsupportedImage, ext)
	}
	key := path.Join(folder, uuid.NewString()+ext)

	req, _ := p.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	uploadURL, err := req.Presign(p.cfg.TTL)
	if err != nil {
		return UploadAuth{}, fmt.Errorf("unable to presign upload: %v", err)
	}

	return UploadAuth{
		UploadURL: uploadURL,
		PublicURL: p.publicURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(p.cfg.TTL),
	}, nil
}

func (p *Presigner) publicURL(key string) string {
	if p.cfg.Endpoint != "" {
		return strings.TrimRight(p.cfg.Endpoint, "/") + "/" + p.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}
