package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/aretw0/charter/pkg/adapters/sqlite"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the latest delivered bookings",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		if cfg.Journal.Path == "" {
			exitOnError("opening journal", errors.New("journal.path is not configured"))
		}

		ctx := context.Background()
		j, err := sqlite.Open(ctx, cfg.Journal.Path)
		exitOnError("opening journal", err)
		defer j.Close()

		bookings, err := j.Recent(ctx, limit)
		exitOnError("reading journal", err)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tUSER\tBOAT\tDATE\tTIME\tHOURS\tCLIENT")
		for _, b := range bookings {
			d := b.Draft
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				b.ID, b.CreatedAt.Local().Format(time.DateTime), b.UserID,
				d.Boat, d.Date, d.Time, d.Hours, orDash(d.Fields()[domain.FieldClientName]))
		}
		_ = w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntP("limit", "n", 20, "Number of bookings to show")
}
