// SPDX-License-Identifier: EPL-2.0

package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/progsnd/loader"
	"gopkg.in/yaml.v3"
)

type fileEntry struct {
	Key      string   `yaml:"key"`
	Path     string   `yaml:"path"`
	SubIndex int      `yaml:"sub_index"`
	Mode     []string `yaml:"mode"`
}

type file struct {
	Name    string      `yaml:"name"`
	Root    string      `yaml:"root"`
	Entries []fileEntry `yaml:"entries"`
}

// Parse reads a table from YAML. Relative root is kept as written.
func Parse(r io.Reader) (*Table, error) {
	return parse(r, "")
}

// LoadFile reads a table from a YAML file. When the file has no name the
// file name without extension is used.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	t, err := parse(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.name == "" {
		base := filepath.Base(path)
		t.name = base[:len(base)-len(filepath.Ext(base))]
	}
	return t, nil
}

func parse(r io.Reader, baseDir string) (*Table, error) {
	var doc file

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding table: %w", err)
	}

	root := doc.Root
	if root != "" && baseDir != "" && !filepath.IsAbs(root) {
		root = filepath.Join(baseDir, root)
	}

	infos := make([]Info, 0, len(doc.Entries))
	for i, e := range doc.Entries {
		mode, err := loader.ParseMode(e.Mode)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Key, err)
		}

		path := e.Path
		if root != "" && path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}

		infos = append(infos, Info{
			Key:      e.Key,
			Path:     path,
			SubIndex: e.SubIndex,
			Mode:     mode,
		})
	}

	return New(doc.Name, infos...)
}
