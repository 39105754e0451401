package utils

import (
	"errors"

	"github.com/kballard/go-shellquote"
)

// SplitStringIntoCommandAndArguments parses one line of CLI input into a
// command name plus optional key and value arguments. Quoting follows shell
// rules, so values containing spaces survive: set city "new york".
func SplitStringIntoCommandAndArguments(line string) (cmd, key, value string, err error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return "", "", "", err
	}

	switch len(words) {
	case 1:
		return words[0], "", "", nil
	case 2:
		return words[0], words[1], "", nil
	case 3:
		return words[0], words[1], words[2], nil
	default:
		return "", "", "", errors.New("expected: <command> [key] [value]")
	}
}
