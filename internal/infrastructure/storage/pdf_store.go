// Package storage puts exported opening PDFs in Google Cloud Storage.
package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/pkg/helpers"
)

type PDFStore struct {
	Client *gcs.Client
	Bucket string
}

func NewPDFStore(client *gcs.Client, bucket string) *PDFStore {
	return &PDFStore{Client: client, Bucket: bucket}
}

func (s *PDFStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}

var _ application.ObjectStore = (*PDFStore)(nil)
