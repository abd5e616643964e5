// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// Device errors.
var (
	// ErrNilDevice is returned when a device or queue is missing.
	ErrNilDevice = errors.New("gpu: device or queue is nil")

	// ErrNoAdapter is returned when the backend exposes no adapter.
	ErrNoAdapter = errors.New("gpu: no adapter available")

	// ErrNotHAL is returned when a DeviceProvider does not expose HAL types.
	ErrNotHAL = errors.New("gpu: provider does not expose hal.Device and hal.Queue")
)

// Device is an opened HAL device together with its queue.
//
// A Device opened by OpenHeadless owns its instance and destroys it on
// Close. A Device wrapping an external provider or an explicit device/queue
// pair is shared: Close leaves it alive.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
	Info   gpucontext.AdapterInfo

	instance hal.Instance
	owned    bool
}

// OpenHeadless opens a device on the noop backend. The noop backend keeps
// buffer contents in memory, so everything above the HAL runs unchanged
// without a GPU.
func OpenHeadless() (*Device, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	d := &Device{
		Device:   open.Device,
		Queue:    open.Queue,
		Info:     adapterInfo(adapters[0].Info),
		instance: instance,
		owned:    true,
	}
	slogger().Info("gpu: opened headless device", "adapter", d.Info.Name)
	return d, nil
}

// Wrap adopts an externally owned device and queue.
func Wrap(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Device{
		Device: device,
		Queue:  queue,
		Info:   gpucontext.AdapterInfo{Name: "external", Type: gpucontext.AdapterTypeUnknown},
	}, nil
}

// FromProvider adopts the device of a gpucontext.DeviceProvider.
//
// The provider's Device and Queue type tokens must be HAL objects, either
// directly or through HalDevice() any / HalQueue() any accessors.
func FromProvider(p gpucontext.DeviceProvider) (*Device, error) {
	if p == nil {
		return nil, ErrNilDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}

	var devAny, queueAny any = p.Device(), p.Queue()
	if hp, ok := p.(halProvider); ok {
		devAny, queueAny = hp.HalDevice(), hp.HalQueue()
	}
	device, ok := devAny.(hal.Device)
	if !ok || device == nil {
		return nil, ErrNotHAL
	}
	queue, ok := queueAny.(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNotHAL
	}

	return &Device{
		Device: device,
		Queue:  queue,
		Info:   p.AdapterInfo(),
	}, nil
}

// Owned reports whether Close destroys the device.
func (d *Device) Owned() bool { return d.owned }

// Close destroys the device if it was opened by OpenHeadless.
func (d *Device) Close() {
	if !d.owned {
		return
	}
	if d.Device != nil {
		d.Device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	d.Device, d.Queue, d.instance = nil, nil, nil
	d.owned = false
}

func adapterInfo(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: info.Name, Type: t}
}
