// Command calform edits, remembers and generates linear advance calibration
// forms from the terminal.
package main

func main() {
	Execute()
}
