package storage

import (
	"net/url"
	"strings"
	"time"
)

// BlobTokenIssuer mints tokens that name one storage path.
type BlobTokenIssuer interface {
	GenerateBlob(storagePath string, ttl time.Duration) (string, time.Time, error)
}

// URLSigner builds download links served by the files endpoint.
type URLSigner struct {
	issuer  BlobTokenIssuer
	baseURL string
}

const FilesRoute = "/api/v1/files"

func NewURLSigner(issuer BlobTokenIssuer, baseURL string) *URLSigner {
	return &URLSigner{issuer: issuer, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *URLSigner) Sign(storagePath string, ttl time.Duration) (string, time.Time, error) {
	token, expiresAt, err := s.issuer.GenerateBlob(storagePath, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.baseURL + FilesRoute + "?token=" + url.QueryEscape(token), expiresAt, nil
}
