package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// token tree and invocation syntax
	SynInfo                Code = 2000
	SynUnclosedDelimiter   Code = 2001
	SynUnexpectedCloser    Code = 2002
	SynMismatchedDelimiter Code = 2003
	SynExpectBinder        Code = 2004
	SynExpectIn            Code = 2005
	SynBadRangeBound       Code = 2006
	SynExpectRange         Code = 2007
	SynExpectBraces        Code = 2008
	SynTrailingTokens      Code = 2009
	SynMarkerMissingStar   Code = 2010

	// expansion
	SeqInfo                  Code = 3000
	SeqFusionNoIdentBefore   Code = 3001
	SeqFusionNoIdentAfter    Code = 3002
	SeqFusionMismatchedIdent Code = 3003
	SeqAmbiguousMarker       Code = 3004
	SeqEmptyReversedRange    Code = 3005
	SeqDepthExceeded         Code = 3006
	SeqRangeTooLarge         Code = 3007
	SeqFusionNegativeValue   Code = 3008

	// io
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// project configuration
	PrjBadManifest Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexUnterminatedChar:         "Unterminated character literal",
	SynInfo:                     "Syntax information",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynUnexpectedCloser:         "Unexpected closing delimiter",
	SynMismatchedDelimiter:      "Mismatched closing delimiter",
	SynExpectBinder:             "Expected binder identifier",
	SynExpectIn:                 "Expected 'in' after binder",
	SynBadRangeBound:            "Range bound is not a base-10 integer",
	SynExpectRange:              "Expected '..' between range bounds",
	SynExpectBraces:             "Expected braced template body",
	SynTrailingTokens:           "Unexpected tokens after template body",
	SynMarkerMissingStar:        "Repetition marker is missing its trailing '*'",
	SeqInfo:                     "Expansion information",
	SeqFusionNoIdentBefore:      "No identifier before '#' to concatenate",
	SeqFusionNoIdentAfter:       "No identifier after '#' to concatenate",
	SeqFusionMismatchedIdent:    "Identifier after '#' is not the binder",
	SeqAmbiguousMarker:          "More than one independent repetition marker",
	SeqEmptyReversedRange:       "Range is reversed and expands to nothing",
	SeqDepthExceeded:            "Nested expansion depth exceeded",
	SeqRangeTooLarge:            "Range is too large to expand",
	SeqFusionNegativeValue:      "Negative value cannot be fused into an identifier",
	IOLoadFileError:             "Failed to load file",
	IOWriteFileError:            "Failed to write file",
	PrjBadManifest:              "Invalid seqgen.toml",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEQ%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
