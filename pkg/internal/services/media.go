package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
)

const defaultMediaTimeout = 30 * time.Second

type UploadedImage struct {
	URL      string `json:"url"`
	RemoteID string `json:"remote_id"`
}

// ImageHost stores images outside the service. Source is whatever the host
// accepts as an upload, for the production host that is a data URI or a
// remote URL.
type ImageHost interface {
	Upload(ctx context.Context, source string) (UploadedImage, error)
	Destroy(ctx context.Context, remoteID string) error
}

var MediaHost ImageHost

type CloudinaryHost struct {
	client *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryHost(cloudName, apiKey, apiSecret, folder string) (*CloudinaryHost, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("unable to configure cloudinary: %v", err)
	}
	return &CloudinaryHost{client: client, folder: folder}, nil
}

func (v *CloudinaryHost) Upload(ctx context.Context, source string) (UploadedImage, error) {
	resp, err := v.client.Upload.Upload(ctx, source, uploader.UploadParams{Folder: v.folder})
	if err != nil {
		return UploadedImage{}, err
	} else if len(resp.Error.Message) > 0 {
		return UploadedImage{}, errors.New(resp.Error.Message)
	}
	return UploadedImage{URL: resp.SecureURL, RemoteID: resp.PublicID}, nil
}

func (v *CloudinaryHost) Destroy(ctx context.Context, remoteID string) error {
	resp, err := v.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: remoteID})
	if err != nil {
		return err
	} else if len(resp.Error.Message) > 0 {
		return errors.New(resp.Error.Message)
	}
	// Already gone counts as done.
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("unexpected destroy result %q", resp.Result)
	}
	return nil
}

func mediaTimeout() time.Duration {
	if timeout := viper.GetDuration("media.timeout"); timeout > 0 {
		return timeout
	}
	return defaultMediaTimeout
}

func UploadImage(source string) (UploadedImage, error) {
	if MediaHost == nil {
		return UploadedImage{}, DependencyError("media storage is not available", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout())
	defer cancel()

	image, err := MediaHost.Upload(ctx, source)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to upload image to media host...")
		return image, DependencyError("unable to upload image", err)
	}
	return image, nil
}

// DestroyImage removes a remote image without failing the caller. When the
// host cannot be reached the image is recorded as a tombstone and retried
// by DoAutoDatabaseCleanup.
func DestroyImage(remoteID string, meta map[string]any) {
	if len(remoteID) == 0 {
		return
	}

	if err := destroyRemoteImage(remoteID); err != nil {
		log.Warn().Err(err).Str("image", remoteID).Msg("Unable to destroy image, it will be retried later...")
		tombstone := models.MediaTombstone{
			RemoteID:  remoteID,
			Attempts:  1,
			LastError: err.Error(),
			Context:   datatypes.JSONMap(meta),
		}
		if err := database.C.Create(&tombstone).Error; err != nil {
			log.Error().Err(err).Str("image", remoteID).Msg("Unable to record media tombstone...")
		}
	}
}

func destroyRemoteImage(remoteID string) error {
	if MediaHost == nil {
		return fmt.Errorf("media storage is not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), mediaTimeout())
	defer cancel()

	return MediaHost.Destroy(ctx, remoteID)
}

var versionSegmentPattern = regexp.MustCompile(`^v\d+$`)

// RemoteIDFromURL recovers the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/folder/abc.png.
func RemoteIDFromURL(url string) string {
	path := url
	if idx := strings.Index(path, "/upload/"); idx >= 0 {
		segments := strings.Split(path[idx+len("/upload/"):], "/")
		if len(segments) > 1 && versionSegmentPattern.MatchString(segments[0]) {
			segments = segments[1:]
		}
		path = strings.Join(segments, "/")
	} else {
		path = path[strings.LastIndex(path, "/")+1:]
	}

	if dot := strings.LastIndex(path, "."); dot > strings.LastIndex(path, "/") {
		path = path[:dot]
	}
	return path
}

func remoteIDOf(storedID, url string) string {
	if len(storedID) > 0 {
		return storedID
	}
	if len(url) > 0 {
		return RemoteIDFromURL(url)
	}
	return ""
}
