package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errPasswordMismatch is returned when the confirmation differs
var errPasswordMismatch = errors.New("the two entered passwords do not match")

// passwordPrompt reads a password from an interactive terminal
type passwordPrompt func(prompt string) (string, error)

// terminalPrompt reads from stdin without echo, or returns an error when
// stdin is not a terminal
func terminalPrompt(out io.Writer) passwordPrompt {
	return func(prompt string) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("no password given: use --password or PAYSLIP_PASSWORD when stdin is not a terminal")
		}
		fmt.Fprint(out, prompt)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}
}

// resolvePassword returns the configured password or asks for it twice
func resolvePassword(configured string, prompt passwordPrompt) (string, error) {
	if configured != "" {
		return configured, nil
	}

	pw, err := prompt("Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := prompt("Repeat for confirmation: ")
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errPasswordMismatch
	}
	return pw, nil
}

// readLine reads one trimmed line, e.g. a pasted authorization code
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
