package diagnostics

import "fmt"

// ErrorCode identifies a diagnostic. Names double as keys into the message
// table, so renaming a code requires renaming its entry in messages.toml.
type ErrorCode int

const (
	// Scanner
	UnrecognizedCharacter ErrorCode = iota
	UnterminatedStringLiteral

	// Command parser
	UnrecognizedCommand
	UnexpectedToken_ExpectingToken
	UnexpectedToken_ExpectingExpression
	UnexpectedToken_ExpectingEOL
	UnexpectedEOL_ExpectingToken
	UnexpectedEOL_ExpectingExpression

	// Statement parser
	UnexpectedEOF_ExpectingCommand
	CannotHaveCommandWithoutPreviousCommand
	CannotDefineASubInsideAnotherSub

	// Binder
	TwoSubModulesWithTheSameName
	TwoLabelsWithTheSameName
	LabelDoesNotExist
	UnsupportedArrayBaseExpression
	UnsupportedCallBaseExpression
	UnsupportedDotBaseExpression
	LibraryMemberNotFound
	UnexpectedArgumentsCount
	PropertyHasNoSetter
	ValueIsNotAssignable
	AssigningNonSubModuleToEvent
	UnassignedExpressionStatement
	InvalidExpressionStatement
	UnexpectedVoid_ExpectingValue

	// Runtime
	CannotUseAnArrayAsAnIndexToAnotherArray
	CannotUseOperatorWithAnArray
	CannotUseOperatorWithAString
	CannotDivideByZero
	PoppingAnEmptyStack
	UnsupportedTextWindowColor
)

var codeNames = map[ErrorCode]string{
	UnrecognizedCharacter:                   "UnrecognizedCharacter",
	UnterminatedStringLiteral:               "UnterminatedStringLiteral",
	UnrecognizedCommand:                     "UnrecognizedCommand",
	UnexpectedToken_ExpectingToken:          "UnexpectedToken_ExpectingToken",
	UnexpectedToken_ExpectingExpression:     "UnexpectedToken_ExpectingExpression",
	UnexpectedToken_ExpectingEOL:            "UnexpectedToken_ExpectingEOL",
	UnexpectedEOL_ExpectingToken:            "UnexpectedEOL_ExpectingToken",
	UnexpectedEOL_ExpectingExpression:       "UnexpectedEOL_ExpectingExpression",
	UnexpectedEOF_ExpectingCommand:          "UnexpectedEOF_ExpectingCommand",
	CannotHaveCommandWithoutPreviousCommand: "CannotHaveCommandWithoutPreviousCommand",
	CannotDefineASubInsideAnotherSub:        "CannotDefineASubInsideAnotherSub",
	TwoSubModulesWithTheSameName:            "TwoSubModulesWithTheSameName",
	TwoLabelsWithTheSameName:                "TwoLabelsWithTheSameName",
	LabelDoesNotExist:                       "LabelDoesNotExist",
	UnsupportedArrayBaseExpression:          "UnsupportedArrayBaseExpression",
	UnsupportedCallBaseExpression:           "UnsupportedCallBaseExpression",
	UnsupportedDotBaseExpression:            "UnsupportedDotBaseExpression",
	LibraryMemberNotFound:                   "LibraryMemberNotFound",
	UnexpectedArgumentsCount:                "UnexpectedArgumentsCount",
	PropertyHasNoSetter:                     "PropertyHasNoSetter",
	ValueIsNotAssignable:                    "ValueIsNotAssignable",
	AssigningNonSubModuleToEvent:            "AssigningNonSubModuleToEvent",
	UnassignedExpressionStatement:           "UnassignedExpressionStatement",
	InvalidExpressionStatement:              "InvalidExpressionStatement",
	UnexpectedVoid_ExpectingValue:           "UnexpectedVoid_ExpectingValue",
	CannotUseAnArrayAsAnIndexToAnotherArray: "CannotUseAnArrayAsAnIndexToAnotherArray",
	CannotUseOperatorWithAnArray:            "CannotUseOperatorWithAnArray",
	CannotUseOperatorWithAString:            "CannotUseOperatorWithAString",
	CannotDivideByZero:                      "CannotDivideByZero",
	PoppingAnEmptyStack:                     "PoppingAnEmptyStack",
	UnsupportedTextWindowColor:              "UnsupportedTextWindowColor",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// IsRuntime reports whether the code is raised by the execution engine
// rather than by a compilation pass.
func (c ErrorCode) IsRuntime() bool {
	return c >= CannotUseAnArrayAsAnIndexToAnotherArray
}

// AllCodes returns every defined error code.
func AllCodes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(codeNames))
	for c := UnrecognizedCharacter; c <= UnsupportedTextWindowColor; c++ {
		codes = append(codes, c)
	}
	return codes
}
