package cmd

import (
	"fmt"

	"github.com/archivekit/go-itss"
	"github.com/spf13/cobra"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List every entry in the archive's directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include the reserved ::DataSpace metadata entries")
}

func runList(path string) error {
	h, err := openArchive(path)
	if err != nil {
		return err
	}
	defer h.Close()

	for _, e := range h.Entries() {
		if !listAll && e.Flags&itss.FlagMeta != 0 {
			continue
		}
		fmt.Printf("%-10s %10d  %s\n", e.Space, e.Length, e.Path)
	}
	return nil
}
