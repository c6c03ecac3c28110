package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BlobStore is the object storage behind the upload endpoints. The rest of
// the app only keeps the returned public URL.
type BlobStore interface {
	// Save streams the file and returns its public URL.
	Save(dir, filename string, r io.Reader) (string, error)
	// Delete removes the blob behind a previously returned URL.
	Delete(url string) error
}

// DiskStore keeps blobs on the local filesystem under root/<dir>/ and serves
// them at baseURL/uploads/<dir>/<name>.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Save(dir, filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(filename))
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return s.baseURL + "/uploads/" + dir + "/" + name, nil
}

func (s *DiskStore) Delete(url string) error {
	i := strings.Index(url, "/uploads/")
	if i < 0 {
		return errors.New("not an upload url")
	}
	rel := url[i+len("/uploads/"):]
	if rel == "" || strings.Contains(rel, "..") {
		return errors.New("bad upload path")
	}
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
}

// Root is the directory http.FileServer should serve at /uploads/.
func (s *DiskStore) Root() string {
	return s.root
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "file"
	}
	return name
}

var uploads BlobStore

// InitUploads wires the blob store singleton used by the upload and content
// handlers.
func InitUploads(root, baseURL string) error {
	s, err := NewDiskStore(root, baseURL)
	if err != nil {
		return err
	}
	uploads = s
	return nil
}

func Uploads() BlobStore {
	return uploads
}

// DeleteBlob removes the blob behind url, logging failures instead of
// propagating them: losing an orphan file must never block a row delete.
func DeleteBlob(url string) {
	if uploads == nil || url == "" {
		return
	}
	if err := uploads.Delete(url); err != nil {
		zap.L().Warn("blob delete failed", zap.String("url", url), zap.Error(err))
	}
}
