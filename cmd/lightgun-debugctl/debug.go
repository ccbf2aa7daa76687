package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
)

type debugRequest struct {
	Opcode byte `json:"opcode"`
	P0     byte `json:"p0"`
	P1     byte `json:"p1"`
	P2     byte `json:"p2"`
	P3     byte `json:"p3"`
}

type debugResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func cmdDebug(args []string) int {
	fs := flag.NewFlagSet("debug", flag.ContinueOnError)
	fs.Usage = usage
	c := addCommonFlags(fs)
	opcode := fs.Uint("opcode", 0, "raw opcode byte to send (required)")
	p0 := fs.Uint("p0", 0, "payload byte 0")
	p1 := fs.Uint("p1", 0, "payload byte 1")
	p2 := fs.Uint("p2", 0, "payload byte 2")
	p3 := fs.Uint("p3", 0, "payload byte 3")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	token, err := c.readToken()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	body, _ := json.Marshal(debugRequest{
		Opcode: byte(*opcode),
		P0:     byte(*p0),
		P1:     byte(*p1),
		P2:     byte(*p2),
		P3:     byte(*p3),
	})

	req, err := http.NewRequest(http.MethodPost, c.baseURL()+"/debug", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	req.Header.Set(tokenHeader, token)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "POST /debug:", err)
		return 1
	}
	defer res.Body.Close()

	var resp debugResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		fmt.Fprintln(os.Stderr, "decoding response:", err)
		return 1
	}
	if resp.Error != "" {
		fmt.Fprintln(os.Stderr, "device error:", resp.Error)
		return 1
	}
	fmt.Println(resp.Result)
	return 0
}
