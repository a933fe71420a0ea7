// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command console is the admin sign-in client. Only admin accounts can hold
// a session here.
package main

import (
	"os"

	"github.com/taibuivan/storefront/internal/client/cli"
)

func main() {
	os.Exit(cli.Execute("console", cli.SurfaceConsole))
}
