package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/websocket"
)

func cmdStream(args []string) int {
	fs := flag.NewFlagSet("stream", flag.ContinueOnError)
	fs.Usage = usage
	c := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	token, err := c.readToken()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	header := http.Header{}
	header.Set(tokenHeader, token)

	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL()+"/stream", header)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dialing /stream:", err)
		return 1
	}
	defer conn.Close()

	for {
		var event map[string]interface{}
		if err := conn.ReadJSON(&event); err != nil {
			fmt.Fprintln(os.Stderr, "stream closed:", err)
			return 0
		}
		out, _ := json.Marshal(event)
		fmt.Println(string(out))
	}
}
