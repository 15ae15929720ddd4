package gcs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/envutil"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

// BucketService is the blob-store surface the note flow needs: path-addressed
// upload, best-effort delete for compensation, and deterministic public URL
// construction.
type BucketService interface {
	UploadFile(dbc dbctx.Context, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, key string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	GetPublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
	emulatorHost  string
	publicBaseURL string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	bucketName := envutil.String("NOTE_GCS_BUCKET_NAME", "")
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var NOTE_GCS_BUCKET_NAME")
	}

	emulatorHost := strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/")
	publicBaseURL := strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/")
	if publicBaseURL != "" {
		parsed, err := url.Parse(publicBaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf(
				"invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q; expected absolute URL like http://localhost:4443",
				publicBaseURL,
			)
		}
	}

	ctx := context.Background()
	var stClient *storage.Client
	var err error
	if emulatorHost != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", emulatorHost)
		stClient, err = storage.NewClient(ctx, option.WithoutAuthentication())
	} else {
		stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info(
		"Object storage initialized",
		"bucket", bucketName,
		"emulator_host", emulatorHost,
		"public_base_url", publicBaseURL,
	)

	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucketName,
		emulatorHost:  emulatorHost,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer for %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, key string) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %q in bucket %q: %w", key, bs.bucketName, err)
	}
	return nil
}

func (bs *bucketService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := bs.storageClient.Bucket(bs.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open reader for %q: %w", key, err)
	}
	return r, nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bs.emulatorHost != "" {
		base := bs.publicBaseURL
		if base == "" {
			base = bs.emulatorHost
		}
		return fmt.Sprintf(
			"%s/storage/v1/b/%s/o/%s?alt=media",
			base,
			url.PathEscape(bs.bucketName),
			url.PathEscape(key),
		)
	}
	if bs.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.publicBaseURL, bs.bucketName, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if s == "" {
		return ""
	}
	switch {
	case strings.HasSuffix(s, ".txt"):
		return "text/plain; charset=utf-8"
	case strings.HasSuffix(s, ".md"):
		return "text/markdown; charset=utf-8"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	default:
		return ""
	}
}
