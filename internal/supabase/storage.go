package supabase

import (
	"bytes"
	"fmt"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient wraps Supabase Storage access to the quote-document bucket.
// Customer-facing links never expose raw storage paths; documents are served
// through short-lived signed URLs.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

const signedURLExpirySeconds = 3600

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// SignedDocumentURL returns a one-hour signed URL for a stored quote document.
func (s *StorageClient) SignedDocumentURL(storagePath string) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, storagePath, signedURLExpirySeconds)
	if err != nil {
		return "", fmt.Errorf("failed to sign document url: %w", err)
	}
	return resp.SignedURL, nil
}

func (s *StorageClient) UploadDocument(storagePath string, data []byte, contentType string) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	return storagePath, nil
}

func (s *StorageClient) DeleteDocument(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}
