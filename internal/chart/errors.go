package chart

import "fmt"

// RenderError is a failure to build, draw or persist a figure
type RenderError struct {
	Op   string // "plot", "draw" or "save"
	Path string // output path, empty before saving
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("render %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
