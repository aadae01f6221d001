// cmd/protfa-split/main.go
package main

import (
	"protfa/internal/appshell"
	"protfa/internal/splitapp"
)

func main() { appshell.Main(splitapp.RunContext) }
