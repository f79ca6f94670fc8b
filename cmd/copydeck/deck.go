package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/copydeck"
	"github.com/aretw0/copydeck/pkg/core"
)

var deckListJSON bool

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks",
}

type deckSummary struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Cards  int    `json:"cards"`
	Active bool   `json:"active"`
}

var deckListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List decks in order, marking the active one",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}

		active := svc.Active()
		decks := svc.Store().Decks()
		out := cmd.OutOrStdout()

		if deckListJSON {
			summaries := make([]deckSummary, 0, len(decks))
			for _, d := range decks {
				summaries = append(summaries, deckSummary{Name: d.Name, ID: d.ID, Cards: len(d.Rows), Active: d.Name == active})
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		}

		if len(decks) == 0 {
			fmt.Fprintln(out, "No decks.")
			return nil
		}
		for _, d := range decks {
			line := fmt.Sprintf("%s (%d)", d.Name, len(d.Rows))
			if d.Name == active {
				fmt.Fprintf(out, "%s %s\n", activeStyle.Sprint("*"), activeStyle.Sprint(line))
				continue
			}
			fmt.Fprintf(out, "  %s\n", line)
		}
		return nil
	},
}

var deckAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an empty deck and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		name, err := svc.AddDeck(cmd.Context())
		if err != nil {
			return fail("Error adding deck", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var deckUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Make a deck active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		if err := svc.Select(cmd.Context(), args[0]); err != nil {
			return fail("Error selecting deck", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active deck: %s\n", args[0])
		return nil
	},
}

var deckRenameCmd = &cobra.Command{
	Use:   "rename OLD [NEW]",
	Short: "Rename a deck, prompting for the new name when omitted",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		oldName := args[0]
		if !svc.Store().Has(oldName) {
			return fail("Error renaming deck", fmt.Errorf("%w: %q", core.ErrDeckNotFound, oldName))
		}

		var newName string
		if len(args) == 2 {
			newName = args[1]
		} else {
			newName, err = prompter.Prompt("Enter new name")
			if err != nil {
				return fail("Error renaming deck", err)
			}
		}
		if newName == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Rename cancelled.")
			return nil
		}

		if err := svc.RenameDeck(cmd.Context(), oldName, newName); err != nil {
			return fail("Error renaming deck", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", oldName, newName)
		return nil
	},
}

var deckRemoveCmd = &cobra.Command{
	Use:     "rm NAME",
	Aliases: []string{"delete"},
	Short:   "Delete a deck and all its cards",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		name := args[0]
		if !svc.Store().Has(name) {
			return fail("Error deleting deck", fmt.Errorf("%w: %q", core.ErrDeckNotFound, name))
		}

		ok, err := confirmer.Confirm(fmt.Sprintf("Delete %q and all its cards?", name))
		if err != nil {
			return fail("Error deleting deck", err)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := svc.DeleteDeck(cmd.Context(), name); err != nil {
			return fail("Error deleting deck", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", name)
		return nil
	},
}

var deckMoveCmd = &cobra.Command{
	Use:   "move SRC DST",
	Short: "Move the deck at position SRC to position DST (0-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, copydeck.ListDecks, args)
	},
}

// runMove feeds a drag result for list into the service.
func runMove(cmd *cobra.Command, list string, args []string) error {
	src, err := strconv.Atoi(args[0])
	if err != nil {
		return fail("Invalid source position", err)
	}
	dst, err := strconv.Atoi(args[1])
	if err != nil {
		return fail("Invalid destination position", err)
	}

	svc, err := openService(cmd)
	if err != nil {
		return err
	}
	moved, err := svc.ApplyDrag(cmd.Context(), copydeck.DragResult{
		Source:      copydeck.Location{Index: src, ListID: list},
		Destination: &copydeck.Location{Index: dst, ListID: list},
	})
	if err != nil {
		return fail("Error moving", err)
	}
	if !moved {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing moved.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved %d to %d\n", src, dst)
	return nil
}

func init() {
	deckListCmd.Flags().BoolVar(&deckListJSON, "json", false, "Output as JSON")

	deckCmd.AddCommand(deckListCmd, deckAddCmd, deckUseCmd, deckRenameCmd, deckRemoveCmd, deckMoveCmd)
	rootCmd.AddCommand(deckCmd)
}
