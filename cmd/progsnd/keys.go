// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys of the active table",
	Long:  `Display every key of the active table with its file, sub-index and load mode.`,
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cfg, cfgDir, logger)
	if err != nil {
		return err
	}

	t := a.resolver.Table()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Table %s (%d keys):\n", t.Name(), t.Len())

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, key := range t.Keys() {
		info, _ := t.Lookup(key)
		fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n", key, info.Path, info.SubIndex, info.Mode)
	}
	return w.Flush()
}
