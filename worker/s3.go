package worker

import (
	"context"
	"path/filepath"

	"text2phenotype.com/postag/s3client"
)

type s3Transactions interface {
	// uploadOutput uploads the file and returns its object key.
	uploadOutput(ctx context.Context, outputPath string) (string, error)
	close()
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) close() {}

func (wrapper *s3ClientWrapper) uploadOutput(ctx context.Context, outputPath string) (string, error) {
	key := wrapper.s3Client.Key(filepath.Base(outputPath))
	if _, err := wrapper.s3Client.UploadFile(ctx, outputPath, key); err != nil {
		return "", err
	}
	return key, nil
}
