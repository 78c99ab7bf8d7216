package util

import "golang.org/x/term"

// IsTty checks if the given reader/writer is attached to a terminal
func IsTty(arg interface{}) bool {
	fdsrc, ok := arg.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(fdsrc.Fd()))
}
