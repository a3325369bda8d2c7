// Package prompt reads operator input for the command line tools.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/credgate/internal/shared"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. If EOF occurs after some input was read, the partial line is
// returned.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a password from the terminal
// without echo.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetNewPassword reads a password twice and returns it when both match.
func GetNewPassword(w io.Writer) ([]byte, error) {
	first, err := GetPassword("Enter password", w)
	if err != nil {
		return nil, err
	}
	second, err := GetPassword("Repeat password", w)
	if err != nil {
		shared.WipeByteArray(first)
		return nil, err
	}
	defer shared.WipeByteArray(second)

	if string(first) != string(second) {
		shared.WipeByteArray(first)
		return nil, ErrPasswordMismatch
	}
	return first, nil
}
