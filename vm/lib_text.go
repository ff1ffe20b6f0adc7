package vm

import (
	"strings"
	"unicode/utf8"

	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
)

func newTextLibrary() *Library {
	lib := newLibrary("Text", "Operations on text values.")

	lib.Methods["Append"] = valueMethod("Joins two texts without adding them as numbers.", []string{"text1", "text2"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(args[0].String() + args[1].String())
		})

	lib.Methods["GetLength"] = valueMethod("Gets the number of characters in a text.", []string{"text"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return NumberValue(utf8.RuneCountInString(args[0].String()))
		})

	lib.Methods["IsSubText"] = valueMethod("Checks whether a text contains another.", []string{"text", "subText"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return BooleanValue(strings.Contains(args[0].String(), args[1].String()))
		})

	lib.Methods["StartsWith"] = valueMethod("Checks whether a text starts with another.", []string{"text", "subText"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return BooleanValue(strings.HasPrefix(args[0].String(), args[1].String()))
		})

	lib.Methods["EndsWith"] = valueMethod("Checks whether a text ends with another.", []string{"text", "subText"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return BooleanValue(strings.HasSuffix(args[0].String(), args[1].String()))
		})

	lib.Methods["GetSubText"] = valueMethod("Gets part of a text, starting at a 1-based position.", []string{"text", "start", "length"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(subText([]rune(args[0].String()), int(toNumber(args[1])), int(toNumber(args[2]))))
		})

	lib.Methods["GetSubTextToEnd"] = valueMethod("Gets the rest of a text from a 1-based position.", []string{"text", "start"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			runes := []rune(args[0].String())
			return StringValue(subText(runes, int(toNumber(args[1])), len(runes)))
		})

	lib.Methods["GetIndexOf"] = valueMethod("Gets the 1-based position of a sub-text, or 0.", []string{"text", "subText"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			text, sub := args[0].String(), args[1].String()
			idx := strings.Index(text, sub)
			if idx < 0 || sub == "" {
				return NumberValue(0)
			}
			return NumberValue(utf8.RuneCountInString(text[:idx]) + 1)
		})

	lib.Methods["ConvertToLowerCase"] = valueMethod("Converts a text to lower case.", []string{"text"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(strings.ToLower(args[0].String()))
		})

	lib.Methods["ConvertToUpperCase"] = valueMethod("Converts a text to upper case.", []string{"text"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(strings.ToUpper(args[0].String()))
		})

	lib.Methods["GetCharacter"] = valueMethod("Gets the character with a given code.", []string{"characterCode"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			return StringValue(string(rune(int(toNumber(args[0])))))
		})

	lib.Methods["GetCharacterCode"] = valueMethod("Gets the code of the first character of a text.", []string{"character"},
		func(_ *Engine, args []Value, _ diagnostics.Range) Value {
			r, size := utf8.DecodeRuneInString(args[0].String())
			if size == 0 {
				return NumberValue(0)
			}
			return NumberValue(r)
		})

	return lib
}

// subText returns up to length runes starting at the 1-based position start.
func subText(runes []rune, start, length int) string {
	if start < 1 || start > len(runes) || length <= 0 {
		return ""
	}
	end := start - 1 + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start-1 : end])
}
