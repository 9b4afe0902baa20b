package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect knows how to make an interpreter announce the end of a command.
type Dialect interface {
	Name() string
	// Prelude is run once as the startup handshake.
	Prelude() string
	// Frame wraps command so that its output is followed by a line
	// "<marker>:<status>".
	Frame(command string, marker string) string
	// ParseStatus interprets the text after "<marker>:". ok is false when the
	// text is not a status this dialect emits.
	ParseStatus(status string) (succeeded bool, ok bool)
	// EchoesInput reports whether the interpreter repeats each input line,
	// possibly behind a prompt, in its output.
	EchoesInput() bool
}

type PowerShell struct{}

func (PowerShell) Name() string {
	return "powershell"
}

func (PowerShell) Prelude() string {
	return "$ErrorActionPreference = 'Stop'"
}

func (PowerShell) EchoesInput() bool {
	return true
}

func (PowerShell) Frame(command string, marker string) string {
	return "try { " + command + "; $csyncOk = $? } " +
		"catch { $csyncOk = $false; Write-Output ('ERROR: ' + $_.Exception.Message) }; " +
		"Write-Output ('" + marker + ":' + $csyncOk)"
}

func (PowerShell) ParseStatus(status string) (bool, bool) {
	switch {
	case strings.EqualFold(status, "True"):
		return true, true
	case strings.EqualFold(status, "False"):
		return false, true
	default:
		return false, false
	}
}

type POSIX struct{}

func (POSIX) Name() string {
	return "posix"
}

func (POSIX) Prelude() string {
	return ":"
}

func (POSIX) EchoesInput() bool {
	return false
}

func (POSIX) Frame(command string, marker string) string {
	return command + "\necho \"" + marker + ":$?\""
}

func (POSIX) ParseStatus(status string) (bool, bool) {
	code, err := strconv.Atoi(status)
	if err != nil || code < 0 {
		return false, false
	}

	return code == 0, true
}

func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "powershell", "pwsh":
		return PowerShell{}, nil
	case "posix", "sh":
		return POSIX{}, nil
	default:
		return nil, fmt.Errorf("unknown shell dialect %q", name)
	}
}
