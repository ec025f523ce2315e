// SPDX-License-Identifier: EPL-2.0

package table

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/loader"
)

// FromDir builds a table from every file under dir that reg can decode.
// The key is the file name without extension and every entry gets mode.
func FromDir(dir string, reg *audio.Registry, mode loader.Mode) (*Table, error) {
	var infos []Info

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, _, ok := reg.ForPath(path); !ok {
			return nil
		}

		name := d.Name()
		infos = append(infos, Info{
			Key:  strings.TrimSuffix(name, filepath.Ext(name)),
			Path: path,
			Mode: mode,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	return New(filepath.Base(dir), infos...)
}
