// ABOUTME: Tests for audio types
// ABOUTME: Tests buffer shape helpers and sample conversion functions
package audio

import "testing"

func TestNewDecodedBuffer(t *testing.T) {
	b := NewDecodedBuffer(16000, 2, 5)

	if b.NumberOfChannels() != 2 {
		t.Errorf("expected 2 channels, got %d", b.NumberOfChannels())
	}
	if b.Length() != 5 {
		t.Errorf("expected length 5, got %d", b.Length())
	}
	for ch, samples := range b.Channels {
		for i, s := range samples {
			if s != 0 {
				t.Errorf("channel %d sample %d: expected 0, got %f", ch, i, s)
			}
		}
	}
}

func TestDecodedBufferEmpty(t *testing.T) {
	b := &DecodedBuffer{SampleRate: 48000}
	if b.Length() != 0 {
		t.Errorf("expected length 0 for buffer without channels, got %d", b.Length())
	}
	if b.Duration() != 0 {
		t.Errorf("expected duration 0, got %f", b.Duration())
	}
}

func TestDecodedBufferDuration(t *testing.T) {
	b := NewDecodedBuffer(16000, 1, 8000)
	if b.Duration() != 0.5 {
		t.Errorf("expected 0.5s, got %f", b.Duration())
	}
}

func TestDeinterleave(t *testing.T) {
	// Last sample does not complete a frame and is dropped
	b := Deinterleave([]float32{0.1, -0.1, 0.2, -0.2, 0.3}, 44100, 2)

	if b.Length() != 2 {
		t.Fatalf("expected 2 frames, got %d", b.Length())
	}
	if b.Channels[0][1] != 0.2 || b.Channels[1][1] != -0.2 {
		t.Errorf("unexpected second frame: %f %f", b.Channels[0][1], b.Channels[1][1])
	}
}

func TestInterleaved(t *testing.T) {
	b := NewDecodedBuffer(48000, 2, 2)
	b.Channels[0][0] = 1.0
	b.Channels[1][0] = -1.0
	b.Channels[0][1] = 0.5
	b.Channels[1][1] = 0

	got := b.Interleaved()
	expected := []int32{Max24Bit, Min24Bit, 4194304, 0}
	if len(got) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], got[i])
		}
	}
}

func TestSampleFromFloat32(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int32
	}{
		{"zero", 0, 0},
		{"max", 1.0, Max24Bit},
		{"min", -1.0, Min24Bit},
		{"over range", 1.5, Max24Bit},
		{"under range", -3, Min24Bit},
		{"half", 0.5, 4194304},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromFloat32(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestFloat32FromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"min", -32768, -1.0},
		{"half", 16384, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Float32FromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906}, // 1000000 >> 8 = 3906
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x56, 0x34, 0x12}, 0x123456},
		{"negative", [3]byte{0x00, 0xFF, 0xFF}, -256},
		{"max positive", [3]byte{0xFF, 0xFF, 0x7F}, Max24Bit},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	f := Format{SampleRate: 48000, Channels: 1, BitDepth: 16}
	if got := f.String(); got != "auto 48000Hz 1ch 16-bit" {
		t.Errorf("unexpected format string %q", got)
	}
}
