// Command koans walks the learner along the path to
// enlightenment: it runs the koans in order and points at the
// first one that still needs attention.
package main

import "os"

func main() {
	os.Exit(Execute())
}
