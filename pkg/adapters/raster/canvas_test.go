package raster_test

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/pkg/adapters/raster"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/aretw0/actvis/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Canvas = (*raster.Canvas)(nil)

func TestCanvas_EncodePNG(t *testing.T) {
	cv, err := raster.New(120, 80)
	require.NoError(t, err)
	cv.Clear(color.White)
	cv.FillRect(10, 10, 20, 20, color.Black)

	var buf bytes.Buffer
	require.NoError(t, cv.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 80, img.Bounds().Dy())

	r, g, b, _ := img.At(20, 20).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r, g, b})
	r, g, b, _ = img.At(100, 70).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestCanvas_ClampsSize(t *testing.T) {
	cv, err := raster.New(0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, cv.Width())
	assert.Equal(t, 1, cv.Height())

	cv, err = raster.New(1_000_000, 2)
	require.NoError(t, err)
	assert.Equal(t, raster.MaxSize, cv.Width())
	assert.Equal(t, 2, cv.Height())
}

func TestCanvas_DrawsEngineFrame(t *testing.T) {
	eng := actvis.New(actvis.WithCanvasSize(300, 200))
	eng.Load(domain.Graph{
		Nodes: []domain.Node{
			{ID: "1", Name: "fetch", Type: domain.NodeTypeAtomic, GX: 0, GY: 0},
			{ID: "2", Name: "store", Type: domain.NodeTypeAtomic, GX: 1, GY: 0},
		},
		Edges: []domain.Edge{{From: "1", To: "2"}},
	})

	cv, err := raster.New(300, 200)
	require.NoError(t, err)
	stats := eng.Draw(cv)
	assert.Equal(t, 2, stats.Shapes)

	// The background is no longer uniform once nodes are painted.
	img := cv.Image()
	bg := img.At(0, 0)
	painted := false
	for x := 0; x < 300 && !painted; x += 5 {
		if img.At(x, 60) != bg {
			painted = true
		}
	}
	assert.True(t, painted)
}

func TestCanvas_TextEdgeCases(t *testing.T) {
	cv, err := raster.New(50, 50)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		cv.Text("", 10, 10, 12, color.Black)
		cv.Text("tiny", 10, 10, 0.01, color.Black)
		cv.RoundRect(5, 5, 10, 4, 50, color.White, color.Black, 1)
	})
}
