package imagesrc

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/memegen/internal/canvas"
)

// Request is a pending image selection.
type Request struct {
	Seq  uint64
	Path string
}

// Loaded is the outcome of a Request.
type Loaded struct {
	Request
	Picture *canvas.Picture
	Err     error
}

// DecodeFunc loads the picture at path.
type DecodeFunc func(path string) (*canvas.Picture, error)

// Loader decodes selected images off the UI goroutine. Every selection is
// numbered so that a slow decode finishing after a newer selection can be
// recognised and dropped: the latest selection wins.
type Loader struct {
	seq    atomic.Uint64
	decode DecodeFunc
}

// NewLoader returns a loader using decode, or canvas.Load when nil.
func NewLoader(decode DecodeFunc) *Loader {
	if decode == nil {
		decode = canvas.Load
	}
	return &Loader{decode: decode}
}

// Request records a new selection, superseding all earlier ones.
func (l *Loader) Request(path string) Request {
	return Request{Seq: l.seq.Add(1), Path: path}
}

// Load decodes the requested image. It is safe to call from any goroutine.
func (l *Loader) Load(ctx context.Context, req Request) Loaded {
	res := Loaded{Request: req}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Picture, res.Err = l.decode(req.Path)
	if res.Err != nil {
		log.Debug("image load failed", "path", req.Path, "seq", req.Seq, "error", res.Err)
	}
	return res
}

// Current reports whether res belongs to the latest selection.
func (l *Loader) Current(res Loaded) bool {
	current := res.Seq == l.seq.Load()
	if !current {
		log.Debug("dropping stale image load", "path", res.Path, "seq", res.Seq)
	}
	return current
}
