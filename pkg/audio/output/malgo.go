// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with a ring buffer feeding the device callback
package output

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
)

// Ring buffer capacity in milliseconds
const malgoBufferMs = 500

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	channels   int
	volume     int
	muted      bool
	ready      bool

	ringBuffer *RingBuffer
	mu         sync.Mutex
}

// RingBuffer provides thread-safe circular buffer for audio samples
type RingBuffer struct {
	buffer   []int32
	readPos  int
	writePos int
	size     int
	count    int
	mu       sync.Mutex
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		buffer: make([]int32, capacity),
		size:   capacity,
	}
}

// Write adds samples to the ring buffer and returns how many fit
func (rb *RingBuffer) Write(samples []int32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	written := 0
	for i := 0; i < len(samples) && rb.count < rb.size; i++ {
		rb.buffer[rb.writePos] = samples[i]
		rb.writePos = (rb.writePos + 1) % rb.size
		rb.count++
		written++
	}
	return written
}

// Read retrieves samples from the ring buffer, zero-filling on underrun
func (rb *RingBuffer) Read(samples []int32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := 0
	for i := 0; i < len(samples) && rb.count > 0; i++ {
		samples[i] = rb.buffer[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
		rb.count--
		read++
	}

	for i := read; i < len(samples); i++ {
		samples[i] = 0
	}
	return read
}

// Available returns the number of samples available to read
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// NewMalgo creates a new Malgo output
func NewMalgo() Output {
	return &Malgo{
		volume: 100,
	}
}

// Open initializes the playback device with the specified format
func (m *Malgo) Open(sampleRate, channels int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil && m.sampleRate == sampleRate && m.channels == channels {
		return nil
	}

	if m.device != nil {
		log.Printf("Format change detected (%dHz/%dch -> %dHz/%dch), reinitializing device",
			m.sampleRate, m.channels, sampleRate, channels)
		m.closeDevice()
	}

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	m.ringBuffer = NewRingBuffer(sampleRate * channels * malgoBufferMs / 1000)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pOutputSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	m.sampleRate = sampleRate
	m.channels = channels
	m.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels (malgo)", sampleRate, channels)
	return nil
}

// Write queues audio samples, waiting while the ring buffer is full
func (m *Malgo) Write(samples []int32) error {
	m.mu.Lock()
	if !m.ready {
		m.mu.Unlock()
		return fmt.Errorf("output not initialized")
	}
	volumedSamples := applyVolume(samples, m.volume, m.muted)
	rb := m.ringBuffer
	m.mu.Unlock()

	written := 0
	for written < len(volumedSamples) {
		n := rb.Write(volumedSamples[written:])
		written += n
		if n == 0 {
			// The device callback drains the buffer continuously
			time.Sleep(5 * time.Millisecond)
		}
	}
	return nil
}

// Flush waits until the device callback has consumed the ring buffer
func (m *Malgo) Flush() error {
	m.mu.Lock()
	rb := m.ringBuffer
	m.mu.Unlock()
	if rb == nil {
		return fmt.Errorf("output not initialized")
	}

	for rb.Available() > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32) {
	samples := make([]int32, int(frameCount)*m.channels)
	m.ringBuffer.Read(samples)

	for i, sample := range samples {
		sample16 := audio.SampleToInt16(sample)
		pOutput[i*2] = byte(sample16)
		pOutput[i*2+1] = byte(sample16 >> 8)
	}
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
		m.ready = false
	}
}

// SetVolume sets the volume (0-100)
func (m *Malgo) SetVolume(volume int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampVolume(volume)
}

// SetMuted sets mute state
func (m *Malgo) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}
