// Command um runs a Universal Machine program image.
//
// Usage:
//
//	um <machine-code-file>
//
// um takes no flags: the program image path is its only argument.
// Output is written to stdout exactly as the running program emits
// it; on a fault, um prints a single diagnostic line to stderr and
// exits non-zero.
package main

import (
	"errors"
	"log"
	"os"

	"github.com/icfp06/um/pkg/vm"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) != 2 {
		log.Fatal("usage: um <machine-code-file>")
	}

	fp, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer fp.Close()

	program, err := vm.LoadImage(fp)
	if err != nil {
		log.Fatal(err)
	}

	con := vm.NewStdConsole()
	defer con.Restore()

	machine := vm.New(program, con)
	if err := machine.Run(); err != nil {
		con.Restore()
		var fault *vm.Fault
		if errors.As(err, &fault) {
			log.Fatal(fault)
		}
		log.Fatal(err)
	}
}
