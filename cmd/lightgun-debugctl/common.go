package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/barrelcam/lightgun-driver/internal/statusapi"
)

// commonFlags mirrors nvclient's parseCommon helper: flags shared by
// every subcommand, parsed into a small struct before the
// subcommand-specific flags.
type commonFlags struct {
	addr      string
	tokenFile string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.addr, "addr", "127.0.0.1:8787", "lightgund status API address (host:port)")
	fs.StringVar(&c.tokenFile, "token-file", "status_api_token.txt", "path to the status API token file")
	return c
}

func (c *commonFlags) readToken() (string, error) {
	b, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", c.tokenFile, err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (c *commonFlags) baseURL() string {
	return "http://" + c.addr
}

func (c *commonFlags) wsURL() string {
	return "ws://" + c.addr
}

const tokenHeader = statusapi.TokenHeader
