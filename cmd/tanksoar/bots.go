package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanksoar/internal/registry"
)

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "List available bots",
	Long:  `Shows every bot that can fill a seat in 'run' or 'play'.`,
	Run:   runBots,
}

func runBots(_ *cobra.Command, _ []string) {
	all := registry.List()

	if len(all) == 0 {
		fmt.Println("No bots available.")
		return
	}

	fmt.Println("Available bots:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, b := range all {
		id := b.ID
		if b.NeedsArg {
			id += ":<arg>"
		}
		maxIDLen = max(maxIDLen, len(id))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, b := range all {
		id := b.ID
		if b.NeedsArg {
			id += ":<arg>"
		}
		fmt.Printf("  %-*s  %s\n", maxIDLen, id, b.Description)
	}

	fmt.Println()
	fmt.Println("Run 'tanksoar run --bots hunter,wanderer' to watch them fight.")
}
