// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/progsnd/utils"
)

// ResampleToMono16 resamples src to targetRate, folds it to mono and
// collects the whole stream as 16-bit PCM. It returns the collected samples
// and the output rate.
func ResampleToMono16(src Source, targetRate int, bufferSize int) ([]int16, int, error) {
	return CollectMono16(src, targetRate, bufferSize, 0)
}

// CollectMono16 is ResampleToMono16 with an upper bound on the number of
// output frames; limit <= 0 means no bound. The bound is what makes looping
// sources renderable.
func CollectMono16(src Source, targetRate int, bufferSize int, limit int) ([]int16, int, error) {
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	mono := NewMonoMixer(NewResampler(src, targetRate))

	capHint := targetRate * 2
	if limit > 0 {
		capHint = min(capHint, limit)
	}
	pcm16 := make([]int16, 0, capHint)
	buf := make([]float32, bufferSize)

	for limit <= 0 || len(pcm16) < limit {
		want := buf
		if limit > 0 {
			want = buf[:min(len(buf), limit-len(pcm16))]
		}

		n, err := mono.ReadSamples(want)
		for _, v := range want[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
