package storage

import (
	"context"
	"os"
)

type FileState struct {
	FilePath string
}

func NewFileState(filePath string) *FileState {
	return &FileState{FilePath: filePath}
}

func (f *FileState) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.FilePath)
}

func (f *FileState) Save(ctx context.Context, data []byte) error {
	return os.WriteFile(f.FilePath, data, 0o644)
}
