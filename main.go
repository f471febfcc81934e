// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/rustpack/rustpack/cmd/rustpack"

func main() {
	cmd.Execute()
}
