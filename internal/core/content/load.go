package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	perr "wikipub/internal/platform/errors"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadContext reads a template context from a .yaml/.yml, .toml or .json file
func LoadContext(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "context file %q", path)
	}
	return DecodeContext(filepath.Ext(path), b)
}

// DecodeContext parses raw bytes as the format implied by ext
func DecodeContext(ext string, b []byte) (map[string]any, error) {
	out := map[string]any{}
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &out)
	case ".toml":
		err = toml.Unmarshal(b, &out)
	case ".json":
		err = json.Unmarshal(b, &out)
	default:
		return nil, perr.InvalidArgf("unsupported context format %q (want yaml, toml or json)", ext)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "context decode (%s)", ext)
	}
	return out, nil
}
