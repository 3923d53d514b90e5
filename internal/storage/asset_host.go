// Package storage stores post images on an S3-compatible asset host and
// addresses them by public URL.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrForeignAsset is returned when a URL does not point into this host's bucket.
var ErrForeignAsset = errors.New("asset is not hosted by this bucket")

// Asset is an uploaded file on its way to the asset host.
type Asset struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AssetHost stores images and releases them again.
type AssetHost interface {
	// Upload stores the asset and returns its public URL.
	Upload(ctx context.Context, asset *Asset) (string, error)
	// Delete releases the asset behind a URL previously returned by Upload.
	Delete(ctx context.Context, url string) error
}
