// Command backoffice runs the back-office server and its maintenance tasks.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
