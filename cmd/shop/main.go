// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command shop is the shopper sign-in client.
package main

import (
	"os"

	"github.com/taibuivan/storefront/internal/client/cli"
)

func main() {
	os.Exit(cli.Execute("shop", cli.SurfaceShop))
}
