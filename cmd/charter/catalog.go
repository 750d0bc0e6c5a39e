package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/charter/internal/cli"
	"github.com/aretw0/charter/internal/config"
	"github.com/aretw0/charter/internal/presentation/graph"
	"github.com/aretw0/charter/internal/validator"
	"github.com/aretw0/charter/pkg/adapters/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the boat catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boats with their pier and captains",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := catalogConfig(cmd)
		cat, err := catalog.Load(cfg.Catalog, cfg.CatalogVariant)
		exitOnError("loading catalog", err)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "BOAT\tPIER\tPHOTO\tCAPTAINS")
		for _, b := range cat.Boats() {
			names := make([]string, len(b.Captains))
			for i, c := range b.Captains {
				names[i] = c.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, orDash(b.Pier), orDash(b.Photo), orDash(strings.Join(names, ", ")))
		}
		_ = w.Flush()
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check photos, captain contacts and the question path of every boat",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := catalogConfig(cmd)
		cat, err := catalog.Load(cfg.Catalog, cfg.CatalogVariant)
		exitOnError("loading catalog", err)

		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			for _, b := range cat.Boats() {
				steps, err := validator.Walk(cfg.Flow, b)
				if err != nil {
					continue
				}
				names := make([]string, len(steps))
				for i, s := range steps {
					names[i] = s.String()
				}
				fmt.Printf("%s: %s\n", b.Name, strings.Join(names, " -> "))
			}
		}

		if err := validator.ValidateCatalog(cat.Boats(), cfg.Flow, cfg.PhotosDir); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("✓ Catalog %s is valid (%d boats)\n", cfg.Catalog, cat.Len())
	},
}

var catalogGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the question flow as a Mermaid diagram",
	Long: `Prints every boat's question path merged into one Mermaid flowchart.
With --user the stored session of that user is highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := catalogConfig(cmd)
		cat, err := catalog.Load(cfg.Catalog, cfg.CatalogVariant)
		exitOnError("loading catalog", err)

		var paths []graph.Path
		for _, b := range cat.Boats() {
			steps, err := validator.Walk(cfg.Flow, b)
			exitOnError("walking "+b.Name, err)
			paths = append(paths, graph.Path{Boat: b.Name, Steps: steps})
		}

		var overlay *graph.GraphOverlay
		if userID, _ := cmd.Flags().GetString("user"); userID != "" {
			ctx := context.Background()
			app, err := cli.NewApp(ctx, cfg, newLogger(cfg), cli.AppOptions{})
			exitOnError("initializing", err)
			defer app.Close()

			s, err := app.Engine.Session(ctx, userID)
			exitOnError("loading session", err)
			overlay = &graph.GraphOverlay{
				VisitedSteps: s.History,
				CurrentStep:  s.Step,
			}
		}
		fmt.Print(graph.GenerateMermaid(paths, overlay))
	},
}

// catalogConfig applies the --catalog and --photos overrides.
func catalogConfig(cmd *cobra.Command) config.Config {
	cfg := loadConfig(cmd)
	if path, _ := cmd.Flags().GetString("catalog"); path != "" {
		cfg.Catalog = path
	}
	if dir, _ := cmd.Flags().GetString("photos"); dir != "" {
		cfg.PhotosDir = dir
	}
	return cfg
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd, catalogValidateCmd, catalogGraphCmd)

	catalogCmd.PersistentFlags().String("catalog", "", "Catalog file (overrides the configuration)")
	catalogCmd.PersistentFlags().String("photos", "", "Photos directory (overrides the configuration)")
	catalogValidateCmd.Flags().BoolP("verbose", "v", false, "Print the questions asked for each boat")
	catalogGraphCmd.Flags().StringP("user", "u", "", "Highlight the stored session of this user")
}
