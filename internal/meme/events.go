package meme

// Dispatcher is an EventSource that callers fire directly. Each event
// keeps every registered handler and invokes them in registration order.
type Dispatcher struct {
	imageLoaded []func(Image)
	submit      []func()
	clear       []func()
	read        []func()
	volume      []func(int)
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) OnImageLoaded(fn func(Image)) { d.imageLoaded = append(d.imageLoaded, fn) }
func (d *Dispatcher) OnSubmit(fn func())           { d.submit = append(d.submit, fn) }
func (d *Dispatcher) OnClear(fn func())            { d.clear = append(d.clear, fn) }
func (d *Dispatcher) OnRead(fn func())             { d.read = append(d.read, fn) }
func (d *Dispatcher) OnVolumeChange(fn func(int))  { d.volume = append(d.volume, fn) }

// ImageLoaded fires the image-loaded handlers.
func (d *Dispatcher) ImageLoaded(img Image) {
	for _, fn := range d.imageLoaded {
		fn(img)
	}
}

// Submit fires the submit handlers.
func (d *Dispatcher) Submit() {
	for _, fn := range d.submit {
		fn()
	}
}

// Clear fires the clear handlers.
func (d *Dispatcher) Clear() {
	for _, fn := range d.clear {
		fn()
	}
}

// Read fires the read handlers.
func (d *Dispatcher) Read() {
	for _, fn := range d.read {
		fn()
	}
}

// VolumeChange fires the volume handlers.
func (d *Dispatcher) VolumeChange(percent int) {
	for _, fn := range d.volume {
		fn(percent)
	}
}

var _ EventSource = (*Dispatcher)(nil)
