package storage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(w/2, h/2, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcessGroupIcon_CropsToSquare(t *testing.T) {
	out, err := ProcessGroupIcon(bytes.NewReader(encodePNG(t, 300, 120)), IconOptions{Size: 64})
	if err != nil {
		t.Fatalf("ProcessGroupIcon: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if decoded.Bounds().Dx() != 64 || decoded.Bounds().Dy() != 64 {
		t.Fatalf("dims = %dx%d, want 64x64", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestProcessGroupIcon_AcceptsJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 80))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}

	if _, err := ProcessGroupIcon(&buf, DefaultIconOptions()); err != nil {
		t.Fatalf("ProcessGroupIcon: %v", err)
	}
}

func TestProcessGroupIcon_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		opts IconOptions
		want error
	}{
		{"too short", []byte("abc"), DefaultIconOptions(), ErrInvalidImage},
		{"not an image", []byte("GIF89a-not-supported"), DefaultIconOptions(), ErrUnsupported},
		{"too large", encodePNG(t, 50, 50), IconOptions{MaxBytes: 16}, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProcessGroupIcon(bytes.NewReader(tt.data), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSquareCrop(t *testing.T) {
	tests := []struct {
		name string
		in   image.Rectangle
		want image.Rectangle
	}{
		{"wide", image.Rect(0, 0, 300, 100), image.Rect(100, 0, 200, 100)},
		{"tall", image.Rect(0, 0, 50, 150), image.Rect(0, 50, 50, 100)},
		{"square", image.Rect(0, 0, 10, 10), image.Rect(0, 0, 10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := squareCrop(tt.in); got != tt.want {
				t.Errorf("squareCrop(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIconKey(t *testing.T) {
	groupID := uuid.New()
	key := IconKey(groupID)

	if !strings.HasPrefix(key, "group-icons/"+groupID.String()+"/") {
		t.Errorf("IconKey = %q, missing group prefix", key)
	}
	if !IsIconKey(groupID, key) {
		t.Errorf("IsIconKey(%q) = false", key)
	}
	if IsIconKey(uuid.New(), key) {
		t.Error("IsIconKey accepted key of another group")
	}
	if IsIconKey(groupID, "group-icons/"+groupID.String()+"/../x.png") {
		t.Error("IsIconKey accepted traversal")
	}
}
