// Package ebiten draws render.DrawList frames with Ebiten and reads the
// keyboard through it.
package ebiten

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/cubedrop/render"
)

// maxBatchVertices keeps vertex indices within uint16.
const maxBatchVertices = 65535 - 3

// Renderer draws DrawList triangles as flat-colored polygons.
type Renderer struct {
	white    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
	options  ebiten.DrawTrianglesOptions
}

func NewRenderer() *Renderer {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return &Renderer{
		white:   img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		options: ebiten.DrawTrianglesOptions{AntiAlias: true},
	}
}

// Draw clears screen with the list's clear color and paints its triangles in
// order.
func (r *Renderer) Draw(screen *ebiten.Image, list *render.DrawList) {
	if list == nil {
		return
	}
	screen.Fill(list.Clear)

	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	for _, tri := range list.Triangles {
		if len(r.vertices)+3 > maxBatchVertices {
			r.flush(screen)
		}
		base := uint16(len(r.vertices))
		cr, cg, cb, ca := channels(tri.Color)
		for _, p := range tri.Points {
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX:   p.X(),
				DstY:   p.Y(),
				SrcX:   1,
				SrcY:   1,
				ColorR: cr,
				ColorG: cg,
				ColorB: cb,
				ColorA: ca,
			})
		}
		r.indices = append(r.indices, base, base+1, base+2)
	}
	r.flush(screen)
}

func (r *Renderer) flush(screen *ebiten.Image) {
	if len(r.indices) == 0 {
		return
	}
	screen.DrawTriangles(r.vertices, r.indices, r.white, &r.options)
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

func channels(c color.RGBA) (float32, float32, float32, float32) {
	return float32(c.R) / 0xff, float32(c.G) / 0xff, float32(c.B) / 0xff, float32(c.A) / 0xff
}
