// =============================================================================
// Itinerary Processor - Store Commands
// =============================================================================
//
// This file defines the commands that read the itinerary store.
//
// COMMAND USAGE:
//   itinerary list [--user <id>]
//   itinerary show <id>
//   itinerary delete <id>
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ginjaninja78/itinerary-processor/internal/format"
	"github.com/ginjaninja78/itinerary-processor/internal/geo"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
	"github.com/ginjaninja78/itinerary-processor/internal/store"
	"github.com/spf13/cobra"
)

// listUser selects whose itineraries 'list' prints.
var listUser string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved itineraries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, user, err := openStore(listUser)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List(cmd.Context(), user)
		if err != nil {
			return err
		}
		return renderList(cmd.OutOrStdout(), records)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved itinerary day by day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore("")
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return renderItinerary(cmd.OutOrStdout(), rec.Itinerary, geo.NewStaticLocator(nil))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved itinerary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore("")
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, deleteCmd)

	listCmd.Flags().StringVar(
		&listUser,
		"user",
		"",
		"User whose itineraries to list (default: the configured default_user)",
	)
}

// openStore opens the configured store and resolves the user, falling back
// to the configured default user.
func openStore(user string) (store.Store, string, error) {
	mainConfig, logger, err := loadRuntime()
	if err != nil {
		return nil, "", err
	}
	if user == "" {
		user = mainConfig.DefaultUser
	}

	st, err := store.Open(mainConfig.Store, mainConfig.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s store: %w", mainConfig.Store, err)
	}
	logger.Debug("Opened %s store", mainConfig.Store)
	return st, user, nil
}

func renderList(w io.Writer, records []store.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No saved itineraries.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDAYS\tITEMS\tCREATED")
	for _, r := range records {
		days, items := 0, 0
		if r.Itinerary != nil {
			days, items = len(r.Itinerary.Days), r.Itinerary.ItemCount()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Title, days, items, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// renderItinerary prints the days in display order with their meals,
// duration and items, then the estimated travel legs between cities.
func renderItinerary(w io.Writer, it *itinerary.ItineraryData, locator geo.Locator) error {
	if it == nil {
		return fmt.Errorf("no itinerary to show")
	}

	fmt.Fprintf(w, "%s\n\n", it.Title)

	for _, day := range it.OrderedDays() {
		fmt.Fprintf(w, "Day %s  %s  %s\n", day.Day, day.City, format.FormatDate(day.Date))
		fmt.Fprintf(w, "  Duration: %s   Meals: %s\n", day.Duration(), format.FormatMeals(day.AllMeals.List()))

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, item := range day.Items {
			fmt.Fprintf(tw, "    %s\t[%s]\t%s\n", format.FormatTime(item.Timing), format.CategoryIcon(item.Category), item.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	legs := geo.Legs(it, locator)
	if len(legs) == 0 {
		return nil
	}
	fmt.Fprintln(w, "Travel")
	for _, leg := range legs {
		fmt.Fprintf(w, "  Day %s -> Day %s: %s to %s, %.0f km\n", leg.FromDay, leg.ToDay, leg.From, leg.To, leg.Distance)
	}
	_, err := fmt.Fprintf(w, "  Total: %.0f km\n", geo.TotalDistance(legs))
	return err
}
