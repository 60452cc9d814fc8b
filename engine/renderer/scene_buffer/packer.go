package scene_buffer

// Packer lays n fixed-stride records into dst. put(i, out) must write record i into out, which
// is exactly stride bytes long. Implementations may call put concurrently for distinct i, and
// must return only after every record is written.
type Packer interface {
	Pack(dst []byte, stride, n int, put func(i int, out []byte))
}

// SerialPacker packs records one after another on the calling goroutine.
type SerialPacker struct{}

func (SerialPacker) Pack(dst []byte, stride, n int, put func(i int, out []byte)) {
	for i := range n {
		put(i, dst[i*stride:(i+1)*stride])
	}
}
