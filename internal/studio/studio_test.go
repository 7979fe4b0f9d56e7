package studio

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmuse/trendmuse/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	req := GenerateRequest{
		Item: models.FashionItem{
			Name:     "Smocked Floral Midi Dress",
			Category: models.CategoryDress,
			Colors:   []string{"pink", "navy"},
		},
		Style:    StyleVintage,
		Strength: 0.9,
	}
	prompt := BuildPrompt(req)
	assert.Contains(t, prompt, "smocked floral midi dress")
	assert.Contains(t, prompt, "vintage style")
	assert.Contains(t, prompt, "dramatic reinterpretation")
	assert.Contains(t, prompt, "pink, navy")

	req.Palette = &Palette{Primary: "#F5E6A3", Accent: "#C41E3A"}
	prompt = BuildPrompt(req)
	assert.Contains(t, prompt, "#F5E6A3")
	assert.Contains(t, prompt, "#C41E3A accents")
	assert.NotContains(t, prompt, "pink, navy", "palette overrides original colors")
}

func TestGenerateDemoMode(t *testing.T) {
	g := NewGenerator(nil, "", "")
	require.True(t, g.DemoMode())

	designs, err := g.Generate(context.Background(), GenerateRequest{
		Item:          models.FashionItem{ID: "p1", Name: "Linen Dress"},
		NumVariations: 3,
	})
	require.NoError(t, err)
	require.Len(t, designs, 3)

	seen := map[string]bool{}
	for _, d := range designs {
		assert.Equal(t, "p1", d.SourceID)
		assert.NotEmpty(t, d.ImageURL)
		assert.NotEmpty(t, d.Prompt)
		assert.Equal(t, StyleMinimalist, d.Style)
		assert.False(t, seen[d.ID], "design IDs are unique")
		seen[d.ID] = true
	}

	// A second run rotates to fresh placeholders.
	more, err := g.Generate(context.Background(), GenerateRequest{
		Item:          models.FashionItem{ID: "p1"},
		NumVariations: 2,
	})
	require.NoError(t, err)
	assert.NotEqual(t, designs[0].ImageURL, more[0].ImageURL)
}

func testPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.RGBA{240, 240, 240, 255}
			if x >= 16 && x < 48 && y >= 16 && y < 48 {
				c = color.RGBA{20, 20, 20, 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertToSketchStyles(t *testing.T) {
	photo := testPhoto(t)

	for _, style := range []SketchStyle{SketchTechnical, SketchPencil, SketchInk} {
		out, err := ConvertToSketch(photo, style, 0.5)
		require.NoError(t, err, string(style))

		decoded, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err, string(style))
		assert.Equal(t, image.Rect(0, 0, 64, 64), decoded.Bounds())
	}
}

func TestConvertToSketchFindsEdges(t *testing.T) {
	out, err := ConvertToSketch(testPhoto(t), SketchTechnical, 0.5)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	var dark, light int
	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(decoded.At(x, y)).(color.Gray)
			if g.Y < 128 {
				dark++
			} else {
				light++
			}
		}
	}
	assert.Positive(t, dark, "edge lines are drawn")
	assert.Greater(t, light, dark, "background stays white")
}

func TestConvertToSketchRejectsGarbage(t *testing.T) {
	_, err := ConvertToSketch([]byte("not an image"), SketchTechnical, 0.5)
	assert.Error(t, err)
}
