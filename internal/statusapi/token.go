package statusapi

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// TokenHeader is the header clients must present the status-API token
// in, mirroring the teacher's X-NovaKey-Token convention
// (cmd/novakey/arm_api.go).
const TokenHeader = "X-LightGun-Token"

// initTokenFile creates path with a fresh random token if it does not
// already exist, and validates its permissions either way — grounded
// on the teacher's initArmTokenFile.
func initTokenFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		if runtime.GOOS != "windows" {
			return ensureFileMode0600(path)
		}
		return nil
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("statusapi: generating token: %w", err)
	}
	token := hex.EncodeToString(b)

	perm := os.FileMode(0o600)
	if runtime.GOOS == "windows" {
		perm = 0o644
	}
	if err := os.WriteFile(path, []byte(token+"\n"), perm); err != nil {
		return fmt.Errorf("statusapi: writing token file: %w", err)
	}
	if runtime.GOOS != "windows" {
		return ensureFileMode0600(path)
	}
	return nil
}

func readToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", fmt.Errorf("statusapi: token file %s is empty", path)
	}
	return tok, nil
}

func ensureFileMode0600(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.Mode().Perm()&0o077 != 0 {
		return fmt.Errorf("statusapi: token file %s has insecure permissions (want 0600 or stricter, got %04o)", path, fi.Mode().Perm())
	}
	return nil
}
