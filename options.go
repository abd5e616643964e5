package breeze

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// DefaultReserve is the number of hidden sprite, text and light objects
// kept per domain for reuse.
const DefaultReserve = 100

// Option configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// Headless renderer on the noop backend
//	r, err := breeze.New()
//
//	// Share the device of a host application
//	r, err := breeze.New(breeze.WithDeviceProvider(app.GPUContextProvider()))
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	device   hal.Device
	queue    hal.Queue
	provider gpucontext.DeviceProvider

	reserve       int
	structural    StructuralMode
	materialCache bool
	queueCapacity int

	fonts        map[FontHandle][]byte
	textCapacity int
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		reserve:       DefaultReserve,
		structural:    StructuralDeferred,
		materialCache: true,
		queueCapacity: 256,
	}
}

// WithDevice renders on an externally owned HAL device and queue. The
// renderer never destroys them.
func WithDevice(device hal.Device, queue hal.Queue) Option {
	return func(o *options) {
		o.device = device
		o.queue = queue
	}
}

// WithDeviceProvider renders on the device of a host application, such as
// a gogpu window. The provider must expose HAL device and queue objects.
//
// Example:
//
//	r, err := breeze.New(breeze.WithDeviceProvider(app.GPUContextProvider()))
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithReserve sets how many leftover sprite, text and light objects are
// kept hidden for reuse per domain. Excess leftovers are destroyed.
// Negative values are treated as zero.
func WithReserve(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.reserve = n
	}
}

// WithImmediateStructuralChanges applies kind changes on pooled objects
// while the command is reconciled, instead of at the start of the next
// frame.
func WithImmediateStructuralChanges() Option {
	return func(o *options) {
		o.structural = StructuralImmediate
	}
}

// WithoutMaterialCache gives every geometry object its own material. The
// material is released with the object or when the object's command
// changes.
func WithoutMaterialCache() Option {
	return func(o *options) {
		o.materialCache = false
	}
}

// WithQueueCapacity preallocates room for n commands per frame.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueCapacity = n
		}
	}
}

// WithFont registers TrueType/OpenType data under handle for text
// measurement. Handle 0 is the built-in default font and cannot be
// replaced.
func WithFont(handle FontHandle, data []byte) Option {
	return func(o *options) {
		if o.fonts == nil {
			o.fonts = make(map[FontHandle][]byte)
		}
		o.fonts[handle] = data
	}
}

// WithTextMetricsCapacity sets the per-shard capacity of the text bounds
// cache.
func WithTextMetricsCapacity(n int) Option {
	return func(o *options) {
		o.textCapacity = n
	}
}
