// taskboard is a file-based task board CLI.
package main

import "github.com/antopolskiy/taskboard/cmd"

func main() {
	cmd.Execute()
}
