package recorder

import (
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
)

// MalgoSource captures microphone audio through the miniaudio bindings.
// Frames arrive on a driver-provided callback thread and are handed to
// the session's data callback as raw S16LE bytes.
type MalgoSource struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	channels   int
	deviceID   *malgo.DeviceID // nil selects the system default
}

// NewMalgoSource initializes the audio backend.
func NewMalgoSource(sampleRate, channels int) (*MalgoSource, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	return &MalgoSource{ctx: ctx, sampleRate: sampleRate, channels: channels}, nil
}

// Devices lists the available capture devices.
func (s *MalgoSource) Devices() ([]malgo.DeviceInfo, error) {
	infos, err := s.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture devices: %w", err)
	}
	return infos, nil
}

// UseDevice selects a capture device for subsequent Start calls.
func (s *MalgoSource) UseDevice(info malgo.DeviceInfo) {
	id := info.ID
	s.deviceID = &id
}

// PickPreferred returns the index of the first device whose name contains
// the preferred substring (case-insensitive), or -1.
func PickPreferred(devices []malgo.DeviceInfo, preferred string) int {
	if preferred == "" {
		return -1
	}
	needle := strings.ToLower(preferred)
	for i, d := range devices {
		if strings.Contains(strings.ToLower(d.Name()), needle) {
			return i
		}
	}
	return -1
}

// Start opens the capture device and begins delivering frames.
func (s *MalgoSource) Start(onData func(pcm []byte)) error {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(s.channels)
	deviceConfig.SampleRate = uint32(s.sampleRate)
	deviceConfig.Alsa.NoMMap = 1
	if s.deviceID != nil {
		deviceConfig.Capture.DeviceID = s.deviceID.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, pSample []byte, framecount uint32) {
			onData(pSample)
		},
	}

	device, err := malgo.InitDevice(s.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	s.device = device
	return nil
}

// Stop halts capture and releases the device. Stop before Uninit, the
// reverse order is not safe.
func (s *MalgoSource) Stop() error {
	if s.device == nil {
		return nil
	}
	err := s.device.Stop()
	s.device.Uninit()
	s.device = nil
	if err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}
	return nil
}

// Close releases the audio context.
func (s *MalgoSource) Close() {
	if s.ctx != nil {
		_ = s.ctx.Uninit()
		s.ctx.Free()
		s.ctx = nil
	}
}
