package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Blob almacena el documento completo como un único valor opaco.
// Load devuelve (nil, nil) si todavía no hay nada guardado.
type Blob interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// FileBlob guarda el documento en un archivo; la escritura es atómica (archivo temporal + rename).
type FileBlob struct {
	Path string
}

// NewFileBlob construye el blob sobre la ruta indicada.
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{Path: path}
}

// Load lee el archivo completo.
func (b *FileBlob) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer %s: %w", b.Path, err)
	}
	return data, nil
}

// Save reemplaza el archivo completo.
func (b *FileBlob) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(b.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.Path); err != nil {
		return fmt.Errorf("reemplazar %s: %w", b.Path, err)
	}
	return nil
}

// MemoryBlob mantiene el documento en memoria. Err, si no es nil, se devuelve en cada
// operación para simular un almacenamiento caído.
type MemoryBlob struct {
	mu   sync.Mutex
	data []byte
	Err  error
}

// NewMemoryBlob construye un blob vacío en memoria.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{}
}

// Load devuelve una copia del contenido.
func (b *MemoryBlob) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return nil, b.Err
	}
	if b.data == nil {
		return nil, nil
	}
	return append([]byte(nil), b.data...), nil
}

// Save reemplaza el contenido.
func (b *MemoryBlob) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.data = append([]byte(nil), data...)
	return nil
}

// SetErr activa o desactiva la falla simulada.
func (b *MemoryBlob) SetErr(err error) {
	b.mu.Lock()
	b.Err = err
	b.mu.Unlock()
}
