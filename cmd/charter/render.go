package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/charter/pkg/adapters/catalog"
	"github.com/aretw0/charter/pkg/adapters/pdf"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a card from a draft file without the bot",
	Long: `Reads a completed draft as JSON (the same keys the HTTP API uses, e.g. "boat",
"captain_name", "guests_count") and writes the PDF card. Useful to check a new
template or font.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		draftPath, _ := cmd.Flags().GetString("draft")
		outPath, _ := cmd.Flags().GetString("out")

		data, err := os.ReadFile(draftPath)
		exitOnError("reading draft", err)
		var draft domain.Draft
		exitOnError("parsing draft", json.Unmarshal(data, &draft))

		cat, err := catalog.Load(cfg.Catalog, cfg.CatalogVariant)
		exitOnError("loading catalog", err)
		boat, err := cat.Lookup(draft.Boat)
		exitOnError("looking up boat", err)

		opts := []pdf.Option{pdf.WithPhotosDir(cfg.PhotosDir)}
		if cfg.Font != "" {
			opts = append(opts, pdf.WithFont(cfg.Font))
		}
		doc, err := pdf.New(cfg.Template, opts...).Render(context.Background(), draft, boat)
		exitOnError("rendering card", err)

		if outPath == "" {
			outPath = doc.Name
		}
		exitOnError("writing card", os.WriteFile(outPath, doc.Bytes, 0644))
		fmt.Printf("✓ %s (%d bytes)\n", outPath, len(doc.Bytes))
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("draft", "", "Draft JSON file")
	renderCmd.Flags().StringP("out", "o", "", "Output file (default: the card file name)")
	_ = renderCmd.MarkFlagRequired("draft")
}
