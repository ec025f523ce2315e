// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"testing"

	"github.com/ik5/progsnd/internal/audiotest"
)

func TestResampleToMono16(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(44100, 2, 44100, 440)

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	if rate != 8000 {
		t.Errorf("rate = %d, want 8000", rate)
	}
	if len(pcm16) < 7998 || len(pcm16) > 8002 {
		t.Errorf("got %d samples, want ≈8000", len(pcm16))
	}
}

func TestCollectMono16_Limit(t *testing.T) {
	t.Parallel()

	looped, err := NewLooper(func() (Source, error) {
		return audiotest.NewConstantSource(8000, 1, 100, 0.5), nil
	}, 0)
	if err != nil {
		t.Fatal(err)
	}

	pcm16, _, err := CollectMono16(looped, 8000, 64, 1000)
	if err != nil {
		t.Fatalf("CollectMono16() error = %v", err)
	}
	if len(pcm16) != 1000 {
		t.Fatalf("got %d samples, want 1000", len(pcm16))
	}
	if pcm16[999] != 16383 {
		t.Errorf("pcm16[999] = %d, want 16383", pcm16[999])
	}
}

func TestCollectMono16_DefaultBufferSize(t *testing.T) {
	t.Parallel()

	pcm16, _, err := CollectMono16(audiotest.NewSilentSource(8000, 1, 500), 8000, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm16) != 500 {
		t.Errorf("got %d samples, want 500", len(pcm16))
	}
}
