// Package studio turns trending products into design assets: AI-style
// variation generation and sketch conversion of product photos.
package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trendmuse/trendmuse/internal/models"
)

// Style selects the design direction for generated variations.
type Style string

const (
	StyleMinimalist Style = "minimalist"
	StyleAvantGarde Style = "avant-garde"
	StyleBohemian   Style = "bohemian"
	StyleStreetwear Style = "streetwear"
	StyleVintage    Style = "vintage"
	StyleFuturistic Style = "futuristic"
)

// Styles lists every supported generation style.
func Styles() []Style {
	return []Style{StyleMinimalist, StyleAvantGarde, StyleBohemian, StyleStreetwear, StyleVintage, StyleFuturistic}
}

// Palette constrains generated variations to a color scheme.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
}

// GenerateRequest describes one variation run.
type GenerateRequest struct {
	Item            models.FashionItem
	Style           Style
	Strength        float64 // 0.1 subtle .. 1.0 dramatic
	Palette         *Palette
	NumVariations   int
	PromptAdditions string
}

// Design is one generated variation.
type Design struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	ImageURL    string    `json:"image_url"`
	Prompt      string    `json:"prompt"`
	Style       Style     `json:"style"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Placeholder variations served when no API key is configured.
var demoVariations = []string{
	"https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=400",
	"https://images.unsplash.com/photo-1539109136881-3be0616acf4b?w=400",
	"https://images.unsplash.com/photo-1434389677669-e08b4cac3105?w=400",
	"https://images.unsplash.com/photo-1490481651871-ab68de25d43d?w=400",
	"https://images.unsplash.com/photo-1445205170230-053b83016050?w=400",
	"https://images.unsplash.com/photo-1558171813-4c088753af8f?w=400",
	"https://images.unsplash.com/photo-1551488831-00ddcb6c6bd3?w=400",
	"https://images.unsplash.com/photo-1562157873-818bc0726f68?w=400",
}

// Generator produces design variations through an image-generation API,
// or placeholder images in demo mode.
type Generator struct {
	client  *http.Client
	apiURL  string
	apiKey  string
	demoIdx int
}

const defaultAPIURL = "https://api.grsai.com/v1/images/generations"

// NewGenerator runs in demo mode when apiKey is empty.
func NewGenerator(client *http.Client, apiURL, apiKey string) *Generator {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Generator{client: client, apiURL: apiURL, apiKey: apiKey}
}

// DemoMode reports whether generation returns placeholders.
func (g *Generator) DemoMode() bool { return g.apiKey == "" }

// Generate produces design variations for a fashion item.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) ([]Design, error) {
	if req.NumVariations <= 0 {
		req.NumVariations = 4
	}
	if req.NumVariations > 8 {
		req.NumVariations = 8
	}
	if req.Style == "" {
		req.Style = StyleMinimalist
	}
	if req.Strength <= 0 {
		req.Strength = 0.5
	}

	prompt := BuildPrompt(req)
	if g.DemoMode() {
		return g.demoDesigns(req, prompt), nil
	}

	designs := make([]Design, 0, req.NumVariations)
	for i := 0; i < req.NumVariations; i++ {
		url, err := g.generateOne(ctx, prompt)
		if err != nil {
			return designs, fmt.Errorf("generate variation %d: %w", i+1, err)
		}
		designs = append(designs, Design{
			ID:          uuid.NewString(),
			SourceID:    req.Item.ID,
			ImageURL:    url,
			Prompt:      prompt,
			Style:       req.Style,
			GeneratedAt: time.Now().UTC(),
		})
	}
	return designs, nil
}

func (g *Generator) demoDesigns(req GenerateRequest, prompt string) []Design {
	designs := make([]Design, 0, req.NumVariations)
	for i := 0; i < req.NumVariations; i++ {
		designs = append(designs, Design{
			ID:          uuid.NewString(),
			SourceID:    req.Item.ID,
			ImageURL:    demoVariations[(g.demoIdx+i)%len(demoVariations)],
			Prompt:      prompt,
			Style:       req.Style,
			GeneratedAt: time.Now().UTC(),
		})
	}
	g.demoIdx += req.NumVariations
	return designs
}

func (g *Generator) generateOne(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":  "nano-banana",
		"prompt": prompt,
		"n":      1,
		"size":   "1024x1024",
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API returned %s", resp.Status)
	}

	var out struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode image API response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", fmt.Errorf("image API returned no images")
	}
	return out.Data[0].URL, nil
}

// BuildPrompt composes the generation prompt from the source item and
// the requested style.
func BuildPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fashion design variation of %s", strings.ToLower(req.Item.Name))
	if req.Item.Category != "" {
		fmt.Fprintf(&b, ", a %s", req.Item.Category)
	}
	fmt.Fprintf(&b, ", in %s style", req.Style)

	switch {
	case req.Strength >= 0.8:
		b.WriteString(", dramatic reinterpretation")
	case req.Strength >= 0.5:
		b.WriteString(", noticeable redesign")
	default:
		b.WriteString(", subtle refresh")
	}

	if req.Palette != nil {
		fmt.Fprintf(&b, ", color palette %s", req.Palette.Primary)
		if req.Palette.Secondary != "" {
			fmt.Fprintf(&b, " with %s", req.Palette.Secondary)
		}
		if req.Palette.Accent != "" {
			fmt.Fprintf(&b, " and %s accents", req.Palette.Accent)
		}
	}
	if len(req.Item.Colors) > 0 && req.Palette == nil {
		fmt.Fprintf(&b, ", original colors %s", strings.Join(req.Item.Colors, ", "))
	}
	if req.PromptAdditions != "" {
		b.WriteString(", ")
		b.WriteString(req.PromptAdditions)
	}
	b.WriteString(", professional fashion photography, studio lighting")
	return b.String()
}
