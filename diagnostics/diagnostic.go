// Package diagnostics holds the error codes, source ranges and message
// rendering shared by the compiler passes and the execution engine.
package diagnostics

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed messages.toml
var messagesTOML []byte

type messageTable struct {
	Messages map[string]string `toml:"messages"`
}

var (
	messagesOnce sync.Once
	messages     map[string]string
)

func loadMessages() map[string]string {
	messagesOnce.Do(func() {
		var table messageTable
		if _, err := toml.Decode(string(messagesTOML), &table); err != nil {
			panic(fmt.Sprintf("embedded diagnostic messages are invalid: %v", err))
		}
		messages = table.Messages
	})
	return messages
}

// Template returns the message template registered for a code.
func Template(code ErrorCode) (string, bool) {
	tmpl, ok := loadMessages()[code.String()]
	return tmpl, ok
}

// Diagnostic is a single compile-time or runtime problem.
type Diagnostic struct {
	Code  ErrorCode
	Range Range
	Args  []string
}

// New creates a diagnostic.
func New(code ErrorCode, rng Range, args ...string) Diagnostic {
	return Diagnostic{Code: code, Range: rng, Args: args}
}

// String renders the diagnostic through its message template.
func (d Diagnostic) String() string {
	tmpl, ok := Template(d.Code)
	if !ok {
		panic(fmt.Sprintf("no message template for %s", d.Code))
	}
	return Format(tmpl, d.Args...)
}

// Error lets a runtime diagnostic travel as an error value in host code.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s", d.Range, d.String())
}

// Format replaces {0}, {1}, ... in tmpl with the matching argument.
// Placeholders without an argument are left untouched.
func Format(tmpl string, args ...string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '{' {
			end := strings.IndexByte(tmpl[i:], '}')
			if end > 1 {
				if n, err := strconv.Atoi(tmpl[i+1 : i+end]); err == nil && n >= 0 && n < len(args) {
					b.WriteString(args[n])
					i += end
					continue
				}
			}
		}
		b.WriteByte(tmpl[i])
	}
	return b.String()
}
