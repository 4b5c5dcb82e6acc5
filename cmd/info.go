package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <archive>",
	Short: "Summarize an archive's entry count and compression status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(path string) error {
	h, err := openArchive(path)
	if err != nil {
		return err
	}
	defer h.Close()

	fmt.Printf("entries:             %d\n", len(h.Entries()))
	fmt.Printf("compression_enabled: %v\n", h.CompressionEnabled())
	return nil
}
