// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/internal/audiotest"
)

// countSamples drains src and returns how many samples it produced.
func countSamples(src audio.Source) int {
	buf := make([]float32, 4096)
	total := 0
	for {
		n, err := src.ReadSamples(buf)
		total += n
		if err != nil {
			return total
		}
	}
}

// Example_resampler converts a 48 kHz sound to 16 kHz.
func Example_resampler() {
	source := audiotest.NewSineSource(48000, 1, 48000, 440.0) // 1 second, 440Hz tone

	resampler := audio.NewResampler(source, 16000)

	fmt.Printf("Output sample rate: %d Hz\n", resampler.SampleRate())
	fmt.Printf("Channels: %d\n", resampler.Channels())

	total := countSamples(resampler)
	fmt.Printf("Duration: %.1f seconds\n", float64(total)/float64(resampler.SampleRate()))
	// Output:
	// Output sample rate: 16000 Hz
	// Channels: 1
	// Duration: 1.0 seconds
}

// Example_monoMixer folds stereo into mono by averaging the channels.
func Example_monoMixer() {
	source := audiotest.NewConstantSource(16000, 2, 16000, 0.5)

	mono := audio.NewMonoMixer(source)

	fmt.Printf("Input channels: %d\n", source.Channels())
	fmt.Printf("Output channels: %d\n", mono.Channels())

	buf := make([]float32, 100)
	n, _ := mono.ReadSamples(buf)

	fmt.Printf("Read %d mono samples, first = %.1f\n", n, buf[0])
	// Output:
	// Input channels: 2
	// Output channels: 1
	// Read 100 mono samples, first = 0.5
}

// Example_looper plays a decoded sound three times from one Buffer.
func Example_looper() {
	buf, err := audio.ReadAll(audiotest.NewConstantSource(8000, 1, 5, 0.25))
	if err != nil {
		fmt.Println(err)
		return
	}

	l, err := audio.NewLooper(func() (audio.Source, error) { return buf.NewSource(), nil }, 3)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer l.Close()

	fmt.Printf("Frames per pass: %d\n", buf.Frames())
	fmt.Printf("Samples over 3 passes: %d\n", countSamples(l))
	// Output:
	// Frames per pass: 5
	// Samples over 3 passes: 15
}

type mockDecoder struct{}

func (mockDecoder) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSineSource(16000, 1, 1000, 440.0), nil
}

// Example_registry picks a decoder by file extension.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("wav", mockDecoder{})

	if _, format, ok := registry.ForPath("media/normal/Contact.WAV"); ok {
		fmt.Printf("Contact.WAV decodes as %q\n", format)
	}

	if _, _, ok := registry.ForPath("media/normal/lines.flac"); !ok {
		fmt.Println("flac is not registered")
	}
	// Output:
	// Contact.WAV decodes as "wav"
	// flac is not registered
}

// Example_resampleToMono16 renders a stereo 44.1 kHz sound as telephone
// quality PCM.
func Example_resampleToMono16() {
	source := audiotest.NewConstantSource(44100, 2, 44100, 0.5)

	pcm, rate, err := audio.ResampleToMono16(source, 8000, 4096)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d Hz, %.1f seconds\n", rate, float64(len(pcm))/float64(rate))
	// Output:
	// 8000 Hz, 1.0 seconds
}
