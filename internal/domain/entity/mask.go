package entity

import "fmt"

// Mask бинарная маска: 0 фон, 1 объект. Размеры совпадают с изображением.
type Mask struct {
	Width  int
	Height int
	Bits   []uint8
}

// NewMask создаёт маску, целиком заполненную фоном.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Bits: make([]uint8, width*height)}
}

// At возвращает значение маски в точке (x, y).
func (m *Mask) At(x, y int) uint8 {
	return m.Bits[y*m.Width+x]
}

// Coverage доля пикселей объекта.
func (m *Mask) Coverage() float64 {
	if len(m.Bits) == 0 {
		return 0
	}
	n := 0
	for _, b := range m.Bits {
		if b != 0 {
			n++
		}
	}
	return float64(n) / float64(len(m.Bits))
}

// Bounds возвращает описывающий прямоугольник объекта; ok=false если объекта нет.
func (m *Mask) Bounds() (area ForegroundArea, ok bool) {
	minX, minY, maxX, maxY := m.Width, m.Height, -1, -1
	pixels := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Bits[y*m.Width+x] == 0 {
				continue
			}
			pixels++
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if pixels == 0 {
		return ForegroundArea{}, false
	}
	return ForegroundArea{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
		Pixels: pixels,
	}, true
}

// ForegroundArea описывающий прямоугольник найденного объекта
type ForegroundArea struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
	Pixels int // число пикселей объекта внутри области
}

// Center возвращает координаты центра области
func (a ForegroundArea) Center() (x, y int) {
	return a.X + a.Width/2, a.Y + a.Height/2
}

// ApplyMask возвращает новое изображение, где фон обнулён во всех каналах.
func (img *Image) ApplyMask(m *Mask) (*Image, error) {
	if m == nil || m.Width != img.Width || m.Height != img.Height || len(m.Bits) != img.Width*img.Height {
		return nil, fmt.Errorf("%w: mask does not match image %dx%d", ErrInternalInvariant, img.Width, img.Height)
	}
	out := NewImage(img.Width, img.Height)
	for p, b := range m.Bits {
		if b == 0 {
			continue
		}
		i := p * Channels
		copy(out.Pix[i:i+Channels], img.Pix[i:i+Channels])
	}
	return out, nil
}
