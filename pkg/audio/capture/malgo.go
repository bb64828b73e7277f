// ABOUTME: Malgo-based microphone recorder
// ABOUTME: Captures 16-bit PCM from the default input device via miniaudio
package capture

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/quicksupport/quicksupport-go/pkg/audio"
	"github.com/quicksupport/quicksupport-go/pkg/audio/decode"
)

// Malgo records from the default capture device
type Malgo struct {
	config Config

	mu        sync.Mutex
	malgoCtx  *malgo.AllocatedContext
	device    *malgo.Device
	recording bool
	stopWatch context.CancelFunc
	frags     fragments
}

// NewMalgo creates a microphone recorder
func NewMalgo(config Config) Recorder {
	return &Malgo{config: config}
}

// Start opens the capture device and begins accumulating fragments.
// Device failures are reported as ErrPermissionDenied. Cancelling ctx
// stops the device but keeps the fragments for Stop.
func (m *Malgo) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recording {
		return ErrAlreadyRecording
	}

	if m.malgoCtx == nil {
		mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		m.malgoCtx = mctx
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(m.config.Channels)
	deviceConfig.SampleRate = uint32(m.config.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.frags.add(pInputSamples)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	m.device = device
	m.recording = true

	watchCtx, cancel := context.WithCancel(ctx)
	m.stopWatch = cancel
	go func() {
		<-watchCtx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		m.closeDevice()
	}()

	log.Printf("Capture started: %dHz, %d channels", m.config.SampleRate, m.config.Channels)
	return nil
}

// Stop closes the device and returns the recording as a pcm blob
func (m *Malgo) Stop() (audio.Blob, error) {
	m.mu.Lock()
	if !m.recording {
		m.mu.Unlock()
		return audio.Blob{}, ErrNotRecording
	}
	m.recording = false
	cancel := m.stopWatch
	m.stopWatch = nil
	m.closeDevice()
	m.mu.Unlock()

	cancel()

	fragments := m.frags.count()
	data := m.frags.take()
	log.Printf("Capture stopped: %d fragments, %d bytes", fragments, len(data))

	return audio.Blob{
		Data: data,
		Format: audio.Format{
			Codec:      decode.CodecPCM,
			SampleRate: m.config.SampleRate,
			Channels:   m.config.Channels,
			BitDepth:   16,
		},
	}, nil
}

// Recording reports whether a capture is active
func (m *Malgo) Recording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recording
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device == nil {
		return
	}
	if err := m.device.Stop(); err != nil {
		log.Printf("Warning: capture device stop error: %v", err)
	}
	m.device.Uninit()
	m.device = nil
}

// Close releases the capture device and context
func (m *Malgo) Close() error {
	m.mu.Lock()
	cancel := m.stopWatch
	m.stopWatch = nil
	m.recording = false
	m.closeDevice()
	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.frags.take()
	return nil
}
