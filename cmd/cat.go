package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <archive> <entry-path>",
	Short: "Write an entry's contents to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCat(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(archivePath, entryPath string) error {
	h, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	defer h.Close()

	e, ok := h.Lookup(entryPath)
	if !ok {
		return fmt.Errorf("no such entry: %s", entryPath)
	}

	data := h.ReadAll(e)
	if int64(len(data)) != e.Length {
		fmt.Fprintf(os.Stderr, "warning: read %d of %d bytes (compressed entry with no codec, or a malformed archive)\n", len(data), e.Length)
	}
	_, err = os.Stdout.Write(data)
	return err
}
