// Command signpass-server serves the gRPC signing service.
package main

import "github.com/pixix4/wallet-pass/cmd/signpass-server/cmd"

func main() {
	cmd.Execute()
}
