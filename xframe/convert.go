package xframe

import (
	"fmt"
	"image"
	"image/color"
)

// Grayscale BGR24 转 Gray8，使用 BT.601 亮度系数，Gray8 输入返回副本
func (f *Frame) Grayscale() (*Frame, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	switch f.Format {
	case Gray8:
		return f.Clone(), nil
	case BGR24:
	default:
		return nil, fmt.Errorf("grayscale: unsupported format %s", f.Format)
	}

	out, err := New(f.Width, f.Height, Gray8)
	if err != nil {
		return nil, err
	}
	for i, j := 0, 0; j < len(out.Pix); i, j = i+3, j+1 {
		b, g, r := uint32(f.Pix[i]), uint32(f.Pix[i+1]), uint32(f.Pix[i+2])
		// 定点运算：0.299R + 0.587G + 0.114B，四舍五入
		out.Pix[j] = uint8((19595*r + 38470*g + 7471*b + 1<<15) >> 16)
	}
	return out, nil
}

// Invert 逐字节取反，返回新帧
func (f *Frame) Invert() (*Frame, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	out := f.Clone()
	for i, v := range out.Pix {
		out.Pix[i] = 255 - v
	}
	return out, nil
}

// FromImage 将任意 image.Image 转换为帧，*image.Gray 转为 Gray8，其余转为 BGR24
func FromImage(img image.Image) (*Frame, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if gray, ok := img.(*image.Gray); ok {
		out, err := New(w, h, Gray8)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			start := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*w:(y+1)*w], gray.Pix[start:start+w])
		}
		return out, nil
	}

	out, err := New(w, h, BGR24)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			out.Set(x, y, c.B, c.G, c.R)
		}
	}
	return out, nil
}

// ToImage 转换为标准库 image，Gray8 -> *image.Gray，BGR24 -> *image.RGBA
func (f *Frame) ToImage() (image.Image, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, f.Width, f.Height)
	switch f.Format {
	case Gray8:
		img := image.NewGray(rect)
		copy(img.Pix, f.Pix)
		return img, nil
	case BGR24:
		img := image.NewRGBA(rect)
		for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
			img.Pix[j] = f.Pix[i+2]
			img.Pix[j+1] = f.Pix[i+1]
			img.Pix[j+2] = f.Pix[i]
			img.Pix[j+3] = 0xff
		}
		return img, nil
	default:
		return nil, fmt.Errorf("to image: unsupported format %s", f.Format)
	}
}
