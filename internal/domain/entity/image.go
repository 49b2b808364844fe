package entity

import "fmt"

// Channels число каналов цветного изображения.
const Channels = 3

// Image цветное 8-битное изображение. Каналы лежат в порядке декодера (BGR).
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // построчно, по Channels байта на пиксель
}

// NewImage создаёт чёрное изображение заданного размера.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// Validate проверяет размеры и длину буфера.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: zero dimension (%dx%d)", ErrInvalidImage, img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*Channels {
		return fmt.Errorf("%w: buffer length %d does not match %dx%dx%d",
			ErrInvalidImage, len(img.Pix), img.Width, img.Height, Channels)
	}
	return nil
}

// Offset возвращает индекс первого канала пикселя (x, y).
func (img *Image) Offset(x, y int) int {
	return (y*img.Width + x) * Channels
}

// At возвращает каналы пикселя в порядке хранения.
func (img *Image) At(x, y int) (c0, c1, c2 uint8) {
	i := img.Offset(x, y)
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Set записывает каналы пикселя в порядке хранения.
func (img *Image) Set(x, y int, c0, c1, c2 uint8) {
	i := img.Offset(x, y)
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c0, c1, c2
}

// Clone возвращает независимую копию.
func (img *Image) Clone() *Image {
	out := &Image{Width: img.Width, Height: img.Height, Pix: make([]uint8, len(img.Pix))}
	copy(out.Pix, img.Pix)
	return out
}

// GrayImage одноканальное изображение яркости.
type GrayImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// At возвращает яркость пикселя (x, y).
func (g *GrayImage) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}
