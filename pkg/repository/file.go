package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

type fileState struct {
	SelectedNetwork string `json:"selectedNetwork"`
}

// FileStore keeps the selected network id in a small JSON document.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path must not be empty")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(_ context.Context) (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read selection file: %w", err)
	}

	var st fileState
	if err := json.Unmarshal(b, &st); err != nil {
		return "", fmt.Errorf("unmarshal selection file: %w", err)
	}
	return strings.TrimSpace(st.SelectedNetwork), nil
}

func (s *FileStore) Save(_ context.Context, id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("mkdir selection dir: %w", err)
	}

	b, err := json.MarshalIndent(fileState{SelectedNetwork: id}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".selection-*")
	if err != nil {
		return fmt.Errorf("create temp selection file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write selection: %w", err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod selection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close selection: %w", err)
	}

	return os.Rename(tmpName, s.path)
}
