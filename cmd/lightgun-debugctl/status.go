package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
)

type statusView struct {
	Device map[string]interface{} `json:"device"`
	Frame  map[string]interface{} `json:"frame"`
}

func cmdStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
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

	req, err := http.NewRequest(http.MethodGet, c.baseURL()+"/status", nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	req.Header.Set(tokenHeader, token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "GET /status:", err)
		return 1
	}
	defer res.Body.Close()

	var body statusView
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		fmt.Fprintln(os.Stderr, "decoding response:", err)
		return 1
	}
	if res.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "status API returned %d\n", res.StatusCode)
		return 1
	}

	out, _ := json.MarshalIndent(body, "", "  ")
	fmt.Println(string(out))
	return 0
}
