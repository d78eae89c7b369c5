// webshell is a websocket shell bridge and its terminal client.
package main

import "github.com/linanwx/webshell/cmd"

func main() {
	cmd.Execute()
}
