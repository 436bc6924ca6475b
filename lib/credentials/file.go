package credentials

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gravitational/trace"
)

// FileStore persists credentials as a single JSON document.
//
// NB: racy, does not use file-locking or similar
type FileStore struct {
	filename string
}

func NewFileStore(filename string) (*FileStore, error) {
	if filename == "" {
		return nil, trace.BadParameter("missing credentials file name")
	}
	return &FileStore{filename: filename}, nil
}

func (f *FileStore) GetCredentials(_ context.Context) (*Credentials, error) {
	payload, err := os.ReadFile(f.filename)
	if err != nil {
		return nil, trace.ConvertSystemError(err)
	}

	var creds Credentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return nil, trace.Wrap(err, "corrupted credentials file %v", f.filename)
	}
	if creds.IsEmpty() {
		return nil, trace.NotFound("credentials file %v contains no tokens", f.filename)
	}

	return &creds, nil
}

func (f *FileStore) PutCredentials(_ context.Context, creds *Credentials) error {
	if creds == nil {
		return trace.BadParameter("missing credentials")
	}
	payload, err := json.Marshal(creds)
	if err != nil {
		return trace.Wrap(err)
	}

	dir := filepath.Dir(f.filename)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return trace.ConvertSystemError(err)
	}

	// Replaced by rename, readers never see a partial document.
	tmp, err := os.CreateTemp(dir, filepath.Base(f.filename)+".*.tmp")
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return trace.ConvertSystemError(err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return trace.ConvertSystemError(err)
	}
	if err := tmp.Close(); err != nil {
		return trace.ConvertSystemError(err)
	}
	if err := os.Rename(tmp.Name(), f.filename); err != nil {
		return trace.ConvertSystemError(err)
	}
	return nil
}

func (f *FileStore) DeleteCredentials(_ context.Context) error {
	err := os.Remove(f.filename)
	if err != nil && !os.IsNotExist(err) {
		return trace.ConvertSystemError(err)
	}
	return nil
}
