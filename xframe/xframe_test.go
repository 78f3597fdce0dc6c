package xframe

import (
	"image"
	"image/color"
	"testing"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	PatchConvey("TestNew", t, func() {
		f, err := New(4, 2, BGR24)
		So(err, ShouldBeNil)
		So(len(f.Pix), ShouldEqual, 24)
		So(f.Stride(), ShouldEqual, 12)
		So(f.Validate(), ShouldBeNil)
		So(f.String(), ShouldEqual, "4x2 BGR24")

		_, err = New(0, 2, BGR24)
		So(err, ShouldNotBeNil)
		_, err = New(2, 2, Format(9))
		So(err, ShouldNotBeNil)
		So(Format(9).String(), ShouldEqual, "Unknown")
	})
}

func TestSize(t *testing.T) {
	PatchConvey("TestSize", t, func() {
		f, _ := New(4, 2, BGR24)
		So(f.Size(), ShouldEqual, 24)
		var nilFrame *Frame
		So(nilFrame.Size(), ShouldEqual, 0)
	})
}

func TestSetAtClone(t *testing.T) {
	PatchConvey("TestSetAtClone", t, func() {
		f, _ := New(2, 2, BGR24)
		f.Set(1, 1, 10, 20, 30)
		So(f.At(1, 1), ShouldResemble, []byte{10, 20, 30})

		cp := f.Clone()
		So(cp.Equal(f), ShouldBeTrue)
		cp.Set(0, 0, 1, 1, 1)
		So(cp.Equal(f), ShouldBeFalse)
		So(f.At(0, 0), ShouldResemble, []byte{0, 0, 0})

		var nilFrame *Frame
		So(nilFrame.Equal(nil), ShouldBeTrue)
		So(nilFrame.Validate(), ShouldNotBeNil)
	})
}

func TestGrayscale(t *testing.T) {
	PatchConvey("TestGrayscale", t, func() {
		f, _ := New(3, 1, BGR24)
		f.Set(0, 0, 0, 0, 255)     // 红
		f.Set(1, 0, 0, 255, 0)     // 绿
		f.Set(2, 0, 255, 255, 255) // 白

		g, err := f.Grayscale()
		So(err, ShouldBeNil)
		So(g.Format, ShouldEqual, Gray8)
		So(g.Pix, ShouldResemble, []byte{76, 150, 255})

		again, err := g.Grayscale()
		So(err, ShouldBeNil)
		So(again.Equal(g), ShouldBeTrue)

		_, err = (&Frame{Width: 2, Height: 2, Format: BGR24, Pix: []byte{1}}).Grayscale()
		So(err, ShouldNotBeNil)
	})
}

func TestInvert(t *testing.T) {
	PatchConvey("TestInvert", t, func() {
		f := &Frame{Width: 2, Height: 1, Format: Gray8, Pix: []byte{0, 200}}
		inv, err := f.Invert()
		So(err, ShouldBeNil)
		So(inv.Pix, ShouldResemble, []byte{255, 55})
		So(f.Pix, ShouldResemble, []byte{0, 200})

		back, _ := inv.Invert()
		So(back.Equal(f), ShouldBeTrue)
	})
}

func TestImageRoundTrip(t *testing.T) {
	PatchConvey("TestImageRoundTrip", t, func() {
		PatchConvey("RGBA -> BGR24 -> RGBA", func() {
			src := image.NewRGBA(image.Rect(0, 0, 2, 1))
			src.Set(0, 0, color.RGBA{R: 1, G: 2, B: 3, A: 255})
			src.Set(1, 0, color.RGBA{R: 200, G: 100, B: 50, A: 255})

			f, err := FromImage(src)
			So(err, ShouldBeNil)
			So(f.Format, ShouldEqual, BGR24)
			So(f.At(0, 0), ShouldResemble, []byte{3, 2, 1})

			img, err := f.ToImage()
			So(err, ShouldBeNil)
			So(img.(*image.RGBA).Pix, ShouldResemble, src.Pix)
		})

		PatchConvey("Gray 保持 Gray8", func() {
			src := image.NewGray(image.Rect(0, 0, 2, 2))
			src.Pix = []byte{1, 2, 3, 4}
			f, err := FromImage(src)
			So(err, ShouldBeNil)
			So(f.Format, ShouldEqual, Gray8)
			So(f.Pix, ShouldResemble, []byte{1, 2, 3, 4})

			img, err := f.ToImage()
			So(err, ShouldBeNil)
			So(img.(*image.Gray).Pix, ShouldResemble, src.Pix)
		})
	})
}
