// ABOUTME: Linear resampler and channel remixer for decoded buffers
// ABOUTME: Used to match reply audio to the opened output device format
package resample

import "github.com/quicksupport/quicksupport-go/pkg/audio"

// OutputFrames calculates how many frames converting inputFrames produces
func OutputFrames(inputFrames, inputRate, outputRate int) int {
	if inputRate <= 0 || outputRate <= 0 {
		return 0
	}
	return int(int64(inputFrames) * int64(outputRate) / int64(inputRate))
}

// Buffer converts buf to outputRate using linear interpolation.
// buf is returned unchanged when the rates already match.
func Buffer(buf *audio.DecodedBuffer, outputRate int) *audio.DecodedBuffer {
	if buf.SampleRate == outputRate || outputRate <= 0 {
		return buf
	}

	inputFrames := buf.Length()
	outputFrames := OutputFrames(inputFrames, buf.SampleRate, outputRate)
	ratio := float64(buf.SampleRate) / float64(outputRate)

	out := audio.NewDecodedBuffer(outputRate, buf.NumberOfChannels(), outputFrames)
	for ch, input := range buf.Channels {
		output := out.Channels[ch]
		for i := range output {
			inputPos := float64(i) * ratio
			inputIdx := int(inputPos)
			frac := float32(inputPos - float64(inputIdx))

			sample1 := input[inputIdx]
			sample2 := sample1
			if inputIdx+1 < inputFrames {
				sample2 = input[inputIdx+1]
			}
			output[i] = sample1*(1-frac) + sample2*frac
		}
	}
	return out
}

// Remix converts buf to the given channel count. Mono is duplicated to
// every output channel, multi-channel input folds down to mono by
// averaging, and other layouts keep the leading channels (repeating the
// last one when more are requested).
func Remix(buf *audio.DecodedBuffer, channels int) *audio.DecodedBuffer {
	in := buf.NumberOfChannels()
	if in == channels || channels <= 0 || in == 0 {
		return buf
	}

	out := &audio.DecodedBuffer{
		SampleRate: buf.SampleRate,
		Channels:   make([][]float32, channels),
	}

	if channels == 1 {
		mono := make([]float32, buf.Length())
		for i := range mono {
			var sum float32
			for ch := 0; ch < in; ch++ {
				sum += buf.Channels[ch][i]
			}
			mono[i] = sum / float32(in)
		}
		out.Channels[0] = mono
		return out
	}

	for ch := 0; ch < channels; ch++ {
		src := ch
		if src >= in {
			src = in - 1
		}
		// Channel slices are immutable once decoded, so they can be shared
		out.Channels[ch] = buf.Channels[src]
	}
	return out
}
