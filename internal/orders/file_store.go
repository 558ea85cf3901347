package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"dockside/internal/errors"
)

// Supported file formats, chosen by extension.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// FileStore reads orders from a JSON, YAML or TOML file, optionally gzip
// compressed (a trailing ".gz"). The file is re-read on every call.
type FileStore struct {
	Path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// tomlDocument is the TOML layout: one [[order]] table per record.
type tomlDocument struct {
	Order []Order `toml:"order"`
}

// Orders implements Store.
func (s *FileStore) Orders(ctx context.Context) ([]Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, compressed, err := DetectFormat(s.Path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.New(errors.DataSourceUnavailable, "failed to read orders file", err).
			WithDetails(map[string]string{"path": s.Path})
	}

	if compressed {
		data, err = gunzip(data)
		if err != nil {
			return nil, errors.New(errors.DataSourceMalformed, "failed to decompress orders file", err).
				WithDetails(map[string]string{"path": s.Path})
		}
	}

	orders, err := Decode(format, data)
	if err != nil {
		return nil, errors.New(errors.DataSourceMalformed, "failed to decode orders file", err).
			WithDetails(map[string]string{"path": s.Path, "format": format})
	}
	return orders, nil
}

// DetectFormat returns the format for path and whether it is gzip compressed.
func DetectFormat(path string) (string, bool, error) {
	name := strings.ToLower(filepath.Base(path))
	compressed := strings.HasSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".gz")

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, compressed, nil
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	case ".toml":
		return FormatTOML, compressed, nil
	default:
		return "", false, errors.New(errors.ConfigInvalid,
			fmt.Sprintf("unsupported orders file extension %q", filepath.Ext(name)), nil)
	}
}

// Decode parses an order collection in the given format.
func Decode(format string, data []byte) ([]Order, error) {
	var orders []Order

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &orders); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &orders); err != nil {
			return nil, err
		}
	case FormatTOML:
		var doc tomlDocument
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
		orders = doc.Order
		if orders == nil {
			// TOML has no literal for an empty array of tables
			orders = []Order{}
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	if orders == nil {
		return nil, fmt.Errorf("no order collection found")
	}
	return orders, nil
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
