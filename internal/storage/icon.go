package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var (
	ErrTooLarge     = errors.New("file too large")
	ErrInvalidImage = errors.New("invalid image")
	ErrUnsupported  = errors.New("unsupported image type")
)

const (
	DefaultIconSize     = 256
	DefaultIconMaxBytes = 2 * 1024 * 1024
)

type IconOptions struct {
	MaxBytes int64
	Size     int
}

func DefaultIconOptions() IconOptions {
	return IconOptions{MaxBytes: DefaultIconMaxBytes, Size: DefaultIconSize}
}

type decoder func(io.Reader) (image.Image, error)

var signatures = []struct {
	offset int
	magic  []byte
	decode decoder
}{
	{0, []byte{0xFF, 0xD8, 0xFF}, jpeg.Decode},
	{0, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, png.Decode},
	{8, []byte("WEBP"), webp.Decode},
}

func sniff(data []byte) (decoder, error) {
	if len(data) < 12 {
		return nil, ErrInvalidImage
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data[sig.offset:], sig.magic) {
			if sig.offset == 8 && !bytes.HasPrefix(data, []byte("RIFF")) {
				continue
			}
			return sig.decode, nil
		}
	}
	return nil, ErrUnsupported
}

// ProcessGroupIcon decodes a JPEG, PNG or WebP upload, crops it to a centered
// square and scales it to opts.Size pixels. Output is always PNG.
func ProcessGroupIcon(r io.Reader, opts IconOptions) ([]byte, error) {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultIconMaxBytes
	}
	if opts.Size <= 0 {
		opts.Size = DefaultIconSize
	}

	data, err := io.ReadAll(io.LimitReader(r, opts.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > opts.MaxBytes {
		return nil, ErrTooLarge
	}

	decode, err := sniff(data)
	if err != nil {
		return nil, err
	}
	src, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	crop := squareCrop(src.Bounds())
	if crop.Empty() {
		return nil, ErrInvalidImage
	}

	dst := image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out.Bytes(), nil
}

// squareCrop returns the largest square centered in b.
func squareCrop(b image.Rectangle) image.Rectangle {
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x := b.Min.X + (b.Dx()-side)/2
	y := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}
