// Command lilt is a terminal client for a radio station's playlist.
package main

import "github.com/tessro/lilt/internal/cli"

func main() {
	cli.Execute()
}
