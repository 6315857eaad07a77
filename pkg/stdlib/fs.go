package stdlib

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrFileTooLarge = errors.New("stdlib/fs: source size limit exceeded")

// LoadSource reads a whole program file. Files larger than maxSize bytes
// are rejected; maxSize <= 0 disables the limit.
func LoadSource(path string, maxSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, int64(maxSize)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stdlib/fs: reading %s: %w", path, err)
	}
	if maxSize > 0 && len(data) > maxSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrFileTooLarge, path, maxSize)
	}
	return data, nil
}
