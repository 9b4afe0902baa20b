package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"golang.org/x/term"
)

type credentialPrompt func(in io.Reader, out io.Writer, username string) (domain.Credentials, error)

// promptCredentials asks for the user when username is empty, then for the
// password. The password is not echoed when in is a terminal.
func promptCredentials(in io.Reader, out io.Writer, username string) (domain.Credentials, error) {
	reader := bufio.NewReader(in)

	username = strings.TrimSpace(username)
	if username == "" {
		_, _ = fmt.Fprint(out, "User: ")
		line, err := readLine(reader)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("read user: %w", err)
		}
		username = strings.TrimSpace(line)
		if username == "" {
			return domain.Credentials{}, errors.New("user is required")
		}
	}

	_, _ = fmt.Fprintf(out, "Password for %s: ", username)
	var password string
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		raw, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	} else {
		line, err := readLine(reader)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		password = line
	}

	if password == "" {
		return domain.Credentials{}, errors.New("password is required")
	}

	return domain.Credentials{Username: username, Password: password}, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
