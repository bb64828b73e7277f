// ABOUTME: Offline converter from any supported audio file to 16-bit WAV
// ABOUTME: Runs the decode and encode steps and prints the resulting header
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/decode"
	"github.com/quicksupport/quicksupport-go/pkg/audio/resample"
	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

var (
	in       = flag.String("in", "", "Input audio file (WAV, MP3, FLAC, Ogg Opus)")
	out      = flag.String("out", "", "Output WAV file")
	rate     = flag.Int("rate", 0, "Resample to this rate in Hz (0 keeps the source rate)")
	channels = flag.Int("channels", 0, "Remix to this channel count (0 keeps the source layout)")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("error reading input: %v", err)
	}

	buf, err := decode.Decode(audio.Blob{Data: data})
	if err != nil {
		log.Fatalf("error decoding %s: %v", *in, err)
	}
	fmt.Printf("Decoded %s: %s, %dHz %dch, %d frames (%.2fs)\n",
		*in, decode.Sniff(data), buf.SampleRate, buf.NumberOfChannels(), buf.Length(), buf.Duration())

	if *rate > 0 {
		buf = resample.Buffer(buf, *rate)
	}
	if *channels > 0 {
		buf = resample.Remix(buf, *channels)
	}

	encoded := wav.Encode(buf)
	if err := os.WriteFile(*out, encoded, 0644); err != nil {
		log.Fatalf("error writing output: %v", err)
	}

	info, err := wav.Parse(encoded)
	if err != nil {
		log.Fatalf("error reading back header: %v", err)
	}
	fmt.Printf("Wrote %s: %d bytes\n", *out, len(encoded))
	fmt.Printf("  format:      %d (PCM)\n", info.AudioFormat)
	fmt.Printf("  channels:    %d\n", info.NumChannels)
	fmt.Printf("  sample rate: %d\n", info.SampleRate)
	fmt.Printf("  byte rate:   %d\n", info.ByteRate)
	fmt.Printf("  block align: %d\n", info.BlockAlign)
	fmt.Printf("  bits:        %d\n", info.BitsPerSample)
	fmt.Printf("  data size:   %d (%d frames, %.2fs)\n", info.DataSize, info.Frames(), info.Duration())
}
