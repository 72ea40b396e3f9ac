package shell

import (
	"errors"
	"strings"

	"github.com/kballard/go-shellquote"
)

var (
	errNoData            = errors.New("no data in command")
	errWrongOptionSyntax = errors.New("wrong option syntax")
)

// shellcmd is a parsed command line: the command word, positional
// arguments, and -key value option pairs.
type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}

	lastWasOption := false
	lastOption := ""
	for _, token := range fields[1:] {
		if strings.HasPrefix(token, "-") {
			lastWasOption = true
			lastOption = token[1:]
			continue
		}
		if lastWasOption {
			options[lastOption] = token
			lastWasOption = false
		} else {
			args = append(args, token)
		}
	}
	if lastWasOption {
		// An option without a value.
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}
