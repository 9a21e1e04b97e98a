//go:build !(linux || freebsd || openbsd || netbsd || dragonfly) || !cgo

// Package clipboard moves exported annotations and images through the
// desktop clipboard.
package clipboard

import "image"

// WriteText reports ErrUnsupported.
func WriteText(string) error { return ErrUnsupported }

// WriteImage reports ErrUnsupported.
func WriteImage(image.Image) error { return ErrUnsupported }

// ReadImage reports ErrUnsupported.
func ReadImage() (image.Image, error) { return nil, ErrUnsupported }
