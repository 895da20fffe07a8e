// SPDX-License-Identifier: MPL-2.0

package main

import cmd "chaosrel/cmd/chaosrel"

func main() {
	cmd.Execute()
}
