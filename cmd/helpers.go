package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/veilbox/veil/internal/configs"
	"github.com/veilbox/veil/internal/custody"
	"github.com/veilbox/veil/internal/server"
	"github.com/veilbox/veil/internal/session"
)

// startSpinner creates a spinner that is shown unless verbose mode is on.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
			s.Stop()
		}
		if s.FinalMSG != "" {
			fmt.Print(s.FinalMSG)
		}
	}

	return s, cleanup
}

// openBackend builds the backend client from the persisted config.
func openBackend() (server.Backend, error) {
	config, err := configs.EnsureClientConfig()
	if err != nil {
		return nil, err
	}
	if config.Client.ServerURL == "" {
		return nil, fmt.Errorf("no server configured: run `veil vault config set-server <url>` first")
	}
	return server.NewHTTPBackend(config.Client.ServerURL), nil
}

// openCustody opens the local custody store, sealed when requested. The
// passphrase comes from VEIL_CUSTODY_PASSPHRASE or an interactive prompt.
func openCustody() (*custody.Store, error) {
	if err := configs.EnsureUserSettings(); err != nil {
		return nil, err
	}

	var opts []custody.Option
	if seal {
		passphrase := os.Getenv("VEIL_CUSTODY_PASSPHRASE")
		if passphrase == "" {
			var err error
			if passphrase, err = promptPassphrase("Custody passphrase: "); err != nil {
				return nil, err
			}
		}
		opts = append(opts, custody.WithPassphrase(passphrase))
	}

	return custody.Open(configs.UserVeilSettings.CustodyPath, opts...)
}

func promptPassphrase(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(raw), nil
}

// currentSession loads the persisted session for commands that need a
// logged-in user.
func currentSession() (*session.Session, error) {
	return session.Load()
}
