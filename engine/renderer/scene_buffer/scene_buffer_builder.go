package scene_buffer

// Option is a functional option applied to a scene buffer during construction via New.
type Option func(*options)

type options struct {
	label   string
	infoVar string
	packer  Packer
}

// WithLabel sets the label used for the GPU buffers and in logs. Defaults to the storage variable name.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - Option: a function that sets the label
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithInfoVar names the BufferInfo uniform in the same bind group that receives the live record
// count after every Update. Without it only the storage array is written.
//
// Parameters:
//   - name: the WGSL variable name of the info uniform, e.g. "sphereInfo"
//
// Returns:
//   - Option: a function that sets the info uniform name
func WithInfoVar(name string) Option {
	return func(o *options) {
		o.infoVar = name
	}
}

// WithPacker replaces the serial record packer, typically with one that marshals on a worker pool.
//
// Parameters:
//   - p: the packer
//
// Returns:
//   - Option: a function that sets the packer
func WithPacker(p Packer) Option {
	return func(o *options) {
		if p != nil {
			o.packer = p
		}
	}
}
