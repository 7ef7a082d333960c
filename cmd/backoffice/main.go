package main

import (
	"os"

	"github.com/iliyamo/cinema-backoffice/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
