package vm

import "fmt"

// Disassemble decodes a single instruction word and renders it as
// one line of pseudo-assembly, for use by the standalone disassembler
// and for diagnostics. It never fails: an illegal opcode renders as
// "illegal(N)" rather than returning an error, since disassembly of a
// static image must survive bytes that are never actually executed
// (e.g. embedded data tables).
func Disassemble(word uint32) string {
	return fmt.Sprintf("%s", Decode(word))
}
