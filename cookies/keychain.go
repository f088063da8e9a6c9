package cookies

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// errUnsupported is returned on platforms without a security CLI.
var errUnsupported = errors.New("keychain unavailable on this platform")

// keychainPassphrase reads a Safe Storage passphrase from the macOS
// Keychain via the security CLI. The first access for a given browser may
// prompt the user for consent.
func keychainPassphrase(service, account string) (string, error) {
	return keychainRead(service, account)
}

func keychainRead(service, account string) (string, error) {
	if runtime.GOOS != "darwin" {
		return "", errUnsupported
	}
	out, err := exec.Command("security",
		"find-generic-password", "-w",
		"-s", service,
		"-a", account,
	).Output()
	if err != nil {
		// Denied consent or missing entry; same outcome either way.
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Keychain stores and retrieves named secrets under one service label.
type Keychain struct {
	service string
}

// NewKeychain creates a Keychain for the given service label.
func NewKeychain(service string) *Keychain {
	return &Keychain{service: service}
}

// Get loads the secret for an account.
func (k *Keychain) Get(account string) (string, error) {
	return keychainRead(k.service, account)
}

// Set stores (or replaces) the secret for an account.
func (k *Keychain) Set(account, value string) error {
	if runtime.GOOS != "darwin" {
		return errUnsupported
	}
	return exec.Command("security",
		"add-generic-password", "-U",
		"-s", k.service,
		"-a", account,
		"-w", value,
	).Run()
}

// Delete removes the secret for an account.
func (k *Keychain) Delete(account string) error {
	if runtime.GOOS != "darwin" {
		return errUnsupported
	}
	return exec.Command("security",
		"delete-generic-password",
		"-s", k.service,
		"-a", account,
	).Run()
}
