/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import (
	"github.com/cudalis/cudalis/pkg/cli"
)

func main() {
	cli.Execute()
}
