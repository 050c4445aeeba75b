package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps [map]",
	Short: "List maps or show one",
	Long: `Without an argument, lists every built-in map plus those found in
--maps. With a map id, draws its layout.

Layout glyphs:
  #  wall        .  open
  E  energy      H  health
  m  missile pack

Examples:
  tanksoar maps
  tanksoar maps duel
  tanksoar maps --maps ./my-maps`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMaps,
}

func runMaps(_ *cobra.Command, args []string) error {
	loader := mapLoader()

	if len(args) == 1 {
		m, err := loader.LoadByID(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", m.Name, m.ID)
		if m.Description != "" {
			fmt.Println(m.Description)
		}
		fmt.Printf("%dx%d, %d spawn slots\n", m.Size, m.Size, len(m.Slots))
		fmt.Println()
		for _, row := range m.Render() {
			fmt.Println("  " + row)
		}
		return nil
	}

	all, err := loader.LoadAll()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No maps available.")
		return nil
	}

	// Calculate column widths
	idW, nameW := len("ID"), len("Name")
	for _, m := range all {
		idW = max(idW, len(m.ID))
		nameW = max(nameW, len(m.Name))
	}

	fmt.Println("Available maps:")
	fmt.Println()
	fmt.Printf("  %-*s  %-*s  %5s  %5s\n", idW, "ID", nameW, "Name", "Size", "Slots")
	fmt.Printf("  %-*s  %-*s  %5s  %5s\n", idW, strings.Repeat("-", idW), nameW, strings.Repeat("-", nameW), "----", "-----")
	for _, m := range all {
		fmt.Printf("  %-*s  %-*s  %5d  %5d\n", idW, m.ID, nameW, m.Name, m.Size, len(m.Slots))
	}
	fmt.Println()
	fmt.Println("Run 'tanksoar maps <id>' to see a layout.")
	return nil
}
