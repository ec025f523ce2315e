// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"bytes"
	"fmt"
	"io"
)

// ReadSeeker returns r itself when it can seek, otherwise it buffers the
// remaining input in memory.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
