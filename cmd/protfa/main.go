// cmd/protfa/main.go
package main

import (
	"protfa/internal/app"
	"protfa/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
