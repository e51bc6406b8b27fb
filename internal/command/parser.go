// Package command parses interactive command lines and builds the outbound
// request messages they translate to. Parsing and encoding are separate so
// a rejected line never causes a partially built message to be sent.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command verbs.
const (
	VerbExec = "exec"
	VerbPage = "page"
	VerbKill = "kill"
	VerbHelp = "help"
)

// ErrUnknownCommand reports a verb the client does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed interactive command. Only the fields belonging to
// the parsed verb are populated.
type Command struct {
	Verb string

	// exec
	PlanPath string
	ExecName string

	// page
	OperatorID string
	PageSize   int
	PageIndex  int
	Export     bool
	ExportDir  string
}

// Parse turns one non-empty interactive line into a Command. It returns
// ErrUnknownCommand (wrapped with the offending verb) for verbs it does
// not recognize, and a usage error for malformed arguments.
func Parse(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("empty command")
	}

	switch fields[0] {
	case VerbExec:
		return parseExec(fields[1:])
	case VerbPage:
		return parsePage(fields[1:])
	case VerbKill:
		if len(fields) != 1 {
			return nil, errors.New("usage: kill")
		}
		return &Command{Verb: VerbKill}, nil
	case VerbHelp:
		return &Command{Verb: VerbHelp}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
}

// parseExec handles: exec <plan.json> [<name>]
func parseExec(args []string) (*Command, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errors.New("usage: exec <plan.json> [<name>]")
	}
	cmd := &Command{Verb: VerbExec, PlanPath: args[0]}
	if len(args) == 2 {
		cmd.ExecName = args[1]
	}
	return cmd, nil
}

// parsePage handles: page <operatorId> <size> <pageIndex> [--export <dir>]
// The export flag may appear before or after the positional arguments, so
// flags are separated out by hand rather than with a flag.FlagSet, which
// stops flag parsing at the first positional argument.
func parsePage(args []string) (*Command, error) {
	cmd := &Command{Verb: VerbPage}
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--export", "-e":
			cmd.Export = true
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				cmd.ExportDir = args[i]
			}
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) != 3 {
		return nil, errors.New("usage: page <operatorId> <size> <pageIndex> [--export <dir>]")
	}
	cmd.OperatorID = positional[0]

	size, err := strconv.Atoi(positional[1])
	if err != nil {
		return nil, fmt.Errorf("page size must be an integer: %q", positional[1])
	}
	page, err := strconv.Atoi(positional[2])
	if err != nil {
		return nil, fmt.Errorf("page index must be an integer: %q", positional[2])
	}
	cmd.PageSize = size
	cmd.PageIndex = page
	return cmd, nil
}
