package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// driver
	DrvInfo              Code = 1000
	DrvUnknownInput      Code = 1001
	DrvBadArguments      Code = 1002
	DrvLinkFailed        Code = 1003
	DrvTimings           Code = 1004
	DrvInternal          Code = 1005
	DrvUnsupportedTarget Code = 1006
	DrvAborted           Code = 1007

	// syntax
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynBadAttribute    Code = 2002
	SynBadManifest     Code = 2003

	// resolution
	ResInfo            Code = 3000
	ResCrateNotFound   Code = 3001
	ResUnresolvedName  Code = 3002
	ResDuplicateItem   Code = 3003
	ResBadCrateMeta    Code = 3004
	ResUnknownExternFn Code = 3005

	// type and flow checks
	TckInfo          Code = 4000
	TckNotAFunction  Code = 4001
	TckMissingMain   Code = 4002
	TckUnreachableFn Code = 4003
	TckAliasCorrupt  Code = 4004
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	DrvInfo:              "Driver information",
	DrvUnknownInput:      "Unsupported input file type",
	DrvBadArguments:      "Invalid command line",
	DrvLinkFailed:        "Native link failed",
	DrvTimings:           "Phase timings",
	DrvInternal:          "Internal driver error",
	DrvUnsupportedTarget: "Unsupported target",
	DrvAborted:           "Aborted after errors",
	SynInfo:              "Syntax information",
	SynUnexpectedToken:   "Unexpected token",
	SynBadAttribute:      "Malformed attribute",
	SynBadManifest:       "Malformed crate manifest",
	ResInfo:              "Resolution information",
	ResCrateNotFound:     "Crate not found",
	ResUnresolvedName:    "Unresolved name",
	ResDuplicateItem:     "Duplicate definition",
	ResBadCrateMeta:      "Unreadable crate metadata",
	ResUnknownExternFn:   "Function not exported by crate",
	TckInfo:              "Type checking information",
	TckNotAFunction:      "Call of a non-function",
	TckMissingMain:       "Missing main function",
	TckUnreachableFn:     "Unreachable function",
	TckAliasCorrupt:      "Inconsistent call definitions",
}

// ID renders the stable short form, e.g. "E3001".
func (c Code) ID() string {
	return fmt.Sprintf("E%04d", uint16(c))
}

func (c Code) String() string {
	if s, ok := codeDescription[c]; ok {
		return s
	}
	return codeDescription[UnknownCode]
}
