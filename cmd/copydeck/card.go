package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/copydeck"
	"github.com/aretw0/copydeck/pkg/core"
)

var (
	cardListJSON bool
	cardLabel    string
	cardContent  string
	cardColumn   string
)

var errCardNotFound = errors.New("card not found")

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage the cards of the active deck",
}

var cardListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the rows of the active deck",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		deck, ok := svc.Store().Deck(svc.Active())
		if !ok {
			fmt.Fprintln(out, "No active deck.")
			return nil
		}

		if cardListJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(deck)
		}

		// Leave room for the position and the two ids.
		labelWidth := 0
		if width := terminalWidth(out); width > 0 {
			labelWidth = max(width-80, 16)
		}

		fmt.Fprintln(out, headerStyle.Sprintf("# %s", deck.Name))
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for i, row := range deck.Rows {
			for _, c := range row.Columns {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, row.ID, c.ID, truncate(c.Label, labelWidth))
			}
		}
		return tw.Flush()
	},
}

var cardShowCmd = &cobra.Command{
	Use:   "show ROW",
	Short: "Print the content of a card, ready to copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		deck, _ := svc.Store().Deck(svc.Active())
		c, ok := findCard(deck, args[0], cardColumn)
		if !ok {
			return fail("Error showing card", errCardNotFound)
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Content)
		return nil
	},
}

var cardAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a blank card to the active deck",
	Long: `Add a blank card to the active deck.
When no deck is active, a deck named "General" receives the card.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		deck, err := svc.AddCard(cmd.Context())
		if err != nil {
			return fail("Error adding card", err)
		}
		d, _ := svc.Store().Deck(deck)
		row := d.Rows[len(d.Rows)-1]
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %q\n", row.ID, row.Columns[0].ID, deck)
		return nil
	},
}

var cardEditCmd = &cobra.Command{
	Use:   "edit ROW [COL]",
	Short: "Edit the label and content of a card",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		col := ""
		if len(args) == 2 {
			col = args[1]
		}

		deck, _ := svc.Store().Deck(svc.Active())
		c, ok := findCard(deck, args[0], col)
		if !ok {
			return fail("Error editing card", errCardNotFound)
		}

		label, content := c.Label, c.Content
		if cmd.Flags().Changed("label") {
			label = cardLabel
		}
		if cmd.Flags().Changed("content") {
			content = cardContent
		}

		if err := svc.UpdateCard(cmd.Context(), args[0], c.ID, label, content); err != nil {
			return fail("Error editing card", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", c.ID)
		return nil
	},
}

var cardRemoveCmd = &cobra.Command{
	Use:     "rm ROW",
	Aliases: []string{"delete"},
	Short:   "Delete a row from the active deck",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		deck, _ := svc.Store().Deck(svc.Active())
		if _, ok := findCard(deck, args[0], ""); !ok {
			return fail("Error deleting card", errCardNotFound)
		}

		ok, err := confirmer.Confirm("Are you sure you want to delete this entry?")
		if err != nil {
			return fail("Error deleting card", err)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := svc.DeleteCard(cmd.Context(), args[0]); err != nil {
			return fail("Error deleting card", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var cardMoveCmd = &cobra.Command{
	Use:   "move SRC DST",
	Short: "Move the row at position SRC to position DST (0-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, copydeck.ListCards, args)
	},
}

// findCard looks up a card by row id; an empty colID selects the row's first card.
func findCard(d core.Deck, rowID, colID string) (core.Card, bool) {
	for _, row := range d.Rows {
		if row.ID != rowID {
			continue
		}
		for _, c := range row.Columns {
			if colID == "" || c.ID == colID {
				return c, true
			}
		}
	}
	return core.Card{}, false
}

func init() {
	cardListCmd.Flags().BoolVar(&cardListJSON, "json", false, "Output the active deck as JSON")
	cardShowCmd.Flags().StringVar(&cardColumn, "col", "", "Card id within the row (default: first)")
	cardEditCmd.Flags().StringVar(&cardLabel, "label", "", "New label")
	cardEditCmd.Flags().StringVar(&cardContent, "content", "", "New content")

	cardCmd.AddCommand(cardListCmd, cardShowCmd, cardAddCmd, cardEditCmd, cardRemoveCmd, cardMoveCmd)
	rootCmd.AddCommand(cardCmd)
}
