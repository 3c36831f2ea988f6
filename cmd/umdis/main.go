// Command umdis is a standalone disassembler for Universal Machine
// program images. It never constructs a VM and never executes a
// single instruction: it only decodes the static word stream, so it
// has no bearing on um's own "no flags, one argument" contract.
package main

import (
	"fmt"
	"os"

	"github.com/icfp06/um/pkg/vm"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "umdis",
		Short: "Disassemble and inspect Universal Machine program images",
	}

	var fromOffset int
	disasmCmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Print one line of pseudo-assembly per instruction word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := loadWords(args[0])
			if err != nil {
				return err
			}
			if fromOffset < 0 || fromOffset > len(words) {
				return fmt.Errorf("umdis: offset %d out of range (image has %d words)", fromOffset, len(words))
			}
			for off := fromOffset; off < len(words); off++ {
				fmt.Printf("%6d: %s\n", off, vm.Disassemble(words[off]))
			}
			return nil
		},
	}
	disasmCmd.Flags().IntVar(&fromOffset, "from", 0, "first word offset to disassemble")

	infoCmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print a summary of an image's size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := loadWords(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("words: %d\n", len(words))
			fmt.Printf("bytes: %d\n", len(words)*4)
			return nil
		},
	}

	rootCmd.AddCommand(disasmCmd, infoCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadWords(path string) ([]uint32, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return vm.LoadImage(fp)
}
