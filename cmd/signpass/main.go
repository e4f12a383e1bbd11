// Command signpass signs wallet pass bundles into .pkpass archives.
package main

import "github.com/pixix4/wallet-pass/cmd/signpass/cmd"

func main() {
	cmd.Execute()
}
