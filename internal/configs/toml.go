package configs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// SaveTOML encodes data into filePath with 0600 permissions. The file is
// written beside the target and renamed into place, so readers never see a
// partial settings file.
func SaveTOML(filePath string, data interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(filePath), err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}

// LoadTOML decodes filePath into data. Keys data has no field for are
// rejected so typos in the settings file surface.
func LoadTOML(filePath string, data interface{}) error {
	meta, err := toml.DecodeFile(filePath, data)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q in %s", undecoded[0].String(), filePath)
	}
	return nil
}
