package main

import (
	"os"

	"github.com/guiyumin/srt-translator/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
