package main

import "github.com/hn-ohta/repo-commits/cmd"

func main() {
	cmd.Execute()
}
