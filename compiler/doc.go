// Package compiler turns SmallBasic program text into vm instructions.
//
// Compilation runs in passes: Scan tokenizes each line, ParseCommand parses
// one line into a command, ParseStatements nests commands into blocks and
// sub-modules, Bind resolves names against the library catalog and Emit
// produces each module's instructions. Every pass reports problems as
// diagnostics and always returns a complete result.
package compiler
