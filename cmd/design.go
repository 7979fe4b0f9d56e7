package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trendmuse/trendmuse/internal/studio"
	"github.com/trendmuse/trendmuse/internal/ui"
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Turn stored products into design assets",
}

var designGenerateCmd = &cobra.Command{
	Use:   "generate <product-url>",
	Short: "Generate design variations of a stored product",
	Args:  cobra.ExactArgs(1),
	RunE:  runDesignGenerate,
}

var designSketchCmd = &cobra.Command{
	Use:   "sketch <image-file>",
	Short: "Convert a product photo to a line sketch",
	Args:  cobra.ExactArgs(1),
	RunE:  runDesignSketch,
}

func init() {
	designGenerateCmd.Flags().String("style", string(studio.StyleMinimalist), "Generation style: minimalist, avant-garde, bohemian, streetwear, vintage, futuristic")
	designGenerateCmd.Flags().Float64("strength", 0.5, "Variation strength 0.1-1.0")
	designGenerateCmd.Flags().Int("count", 4, "Number of variations")
	designGenerateCmd.Flags().String("prompt", "", "Extra prompt text")

	designSketchCmd.Flags().String("style", string(studio.SketchTechnical), "Sketch style: technical, pencil, ink")
	designSketchCmd.Flags().Float64("detail", 0.5, "Detail level 0.1-1.0")
	designSketchCmd.Flags().String("out", "", "Output PNG path (default: <input>.sketch.png)")

	designCmd.AddCommand(designGenerateCmd)
	designCmd.AddCommand(designSketchCmd)
	rootCmd.AddCommand(designCmd)
}

func runDesignGenerate(cmd *cobra.Command, args []string) error {
	style, _ := cmd.Flags().GetString("style")
	strength, _ := cmd.Flags().GetFloat64("strength")
	count, _ := cmd.Flags().GetInt("count")
	prompt, _ := cmd.Flags().GetString("prompt")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	item, err := st.ItemByURL(args[0])
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("product not in database: %s (scan it first with --save)", args[0])
	}

	gen := studio.NewGenerator(nil, cfg.ImageAPIURL, cfg.ImageAPIKey)
	spin := ui.NewSpinner()
	if gen.DemoMode() {
		spin.Start("Generating placeholder variations (no API key)...")
	} else {
		spin.Start("Generating design variations...")
	}

	designs, err := gen.Generate(context.Background(), studio.GenerateRequest{
		Item:            *item,
		Style:           studio.Style(style),
		Strength:        strength,
		NumVariations:   count,
		PromptAdditions: prompt,
	})
	if err != nil {
		spin.Fail("Generation failed")
		return err
	}
	spin.Succeed(fmt.Sprintf("Generated %d variations", len(designs)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(designs)
}

func runDesignSketch(cmd *cobra.Command, args []string) error {
	style, _ := cmd.Flags().GetString("style")
	detail, _ := cmd.Flags().GetFloat64("detail")
	outPath, _ := cmd.Flags().GetString("out")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	sketch, err := studio.ConvertToSketch(data, studio.SketchStyle(style), detail)
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = args[0] + ".sketch.png"
	}
	if err := os.WriteFile(outPath, sketch, 0o644); err != nil {
		return err
	}
	fmt.Println(outPath)
	return nil
}
