package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// the service name groups the engine's secrets in the OS keychain
	KeyringService = "jobdesk"
)

// The session credential is an HTTP-only cookie the backend sets on login.
// The engine never inspects it; it only stashes the serialized cookie jar
// contents here so a restart resumes the same session, the way a browser's
// cookie store survives a page reload.

func GetSession(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	s, err := keyring.Get(KeyringService, account)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", errors.New("stored session is empty")
	}
	return s, nil
}

func SetSession(account string, serialized string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(serialized) == "" {
		return errors.New("session payload is empty")
	}
	return keyring.Set(KeyringService, account, serialized)
}

func DeleteSession(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// SessionAccount keys the stored session by backend host, so pointing the
// engine at a different backend never resurrects another backend's cookie.
func SessionAccount(apiHost string) string {
	return fmt.Sprintf("jobdesk:session:%s", apiHost)
}
