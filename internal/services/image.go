package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shipbid/apiserver/internal/storage"
)

// ErrStorageUnavailable is returned when an upload is requested but no
// object storage backend is configured.
var ErrStorageUnavailable = errors.New("object storage is not configured")

// uploadImage writes image bytes to object storage under a random key that
// keeps the original extension, and returns the object's public URL.
func uploadImage(ctx context.Context, st *storage.Storage, prefix, filename string, data []byte) (string, error) {
	if st == nil {
		return "", ErrStorageUnavailable
	}
	if len(data) == 0 {
		return "", errors.New("image payload is empty")
	}

	key := prefix + "/" + randomObjectName(filename)
	contentType := http.DetectContentType(data)
	if err := st.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return st.URL(key), nil
}

func randomObjectName(filename string) string {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return filepath.Base(filename)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return hex.EncodeToString(buf[:]) + ext
}
