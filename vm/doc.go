// Package vm executes compiled SmallBasic programs.
//
// This package contains:
//   - The instruction set the compiler emits
//   - Runtime values: strings, numbers and path-copied arrays
//   - The Engine, a stack machine with pause, single-step and blocking I/O
//   - The library runtime contract and the built-in libraries
//   - Plugin interfaces for hosts that render graphics, widgets and sound
//   - A disassembler for emitted modules
package vm
