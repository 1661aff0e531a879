// Package prompt implements the interactive Confirmer used by regctl. It
// reads line-oriented answers from an io.Reader (normally stdin) so the
// batch-approval behavior is testable with a scripted input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// Prompt asks yes/no questions on out and reads answers from in. It blocks
// until an answer arrives; there is no timeout.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// New builds a Prompt over the given streams.
func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Confirm implements types.Confirmer.
//
// With a sticky state the accepted answers are y/n/a/q: "a" answers yes and
// sets yes-to-all for this prompt kind, "q" answers no and sets no-to-all.
// Without one (the permission-denied continuation) only y/n are offered.
// EOF or an unreadable answer counts as no.
func (p *Prompt) Confirm(kind types.PromptKind, message string, sticky *types.StickyChoice) bool {
	choices := "[y]es / [n]o"
	if sticky != nil {
		choices = "[y]es / [n]o / [a]ll / [q] none"
	}

	for {
		fmt.Fprintf(p.out, "%s %s: ", message, choices)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return false
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		case "a", "all":
			if sticky != nil {
				sticky.YesToAll = true
				return true
			}
		case "q", "none":
			if sticky != nil {
				sticky.NoToAll = true
				return false
			}
		}
		if err != nil {
			// stream exhausted mid-line
			return false
		}
		fmt.Fprintf(p.out, "Unrecognized answer %q.\n", strings.TrimSpace(line))
	}
}
