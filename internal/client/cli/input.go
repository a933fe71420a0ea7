// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalPassword reads without echo when stdin is a terminal and falls back
// to a plain line read for piped input.
func (app *App) terminalPassword() (string, error) {
	if file, ok := app.Stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		raw, err := term.ReadPassword(int(file.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := app.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
