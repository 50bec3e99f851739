package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/lockd/internal/audit"
	"github.com/PolarWolf314/lockd/internal/configs"
	lerrors "github.com/PolarWolf314/lockd/internal/errors"
	"github.com/PolarWolf314/lockd/internal/events"
	"github.com/PolarWolf314/lockd/internal/session"
	"github.com/PolarWolf314/lockd/internal/ui"
	"github.com/PolarWolf314/lockd/internal/utils"

	"github.com/briandowns/spinner"
)

// PasswordEnv names the environment variable read before prompting.
const PasswordEnv = "LOCKD_PASSWORD"

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
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
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// auditPath returns the audit log path, or "" when auditing is disabled.
func auditPath() string {
	if Settings == nil || !Settings.Audit || configs.UserLockdSettings == nil {
		return ""
	}
	return audit.LogPath(configs.UserLockdSettings.DataPath)
}

// newSession builds a locked session from the loaded settings. Session
// events go to sink and, when auditing is on, to the audit log.
func newSession(sink events.Sink) *session.Session {
	settings := Settings
	if settings == nil {
		settings = configs.DefaultSettings()
	}

	// Entries go to the user the key was derived for, which the shell can
	// change with unlock.
	var sess *session.Session
	if path := auditPath(); path != "" {
		sink = events.Multi(sink, audit.Sink(path, func() string {
			if user := sess.User(); user != "" {
				return user
			}
			return username()
		}))
	}

	sess = session.New(session.Options{
		TextMode: settings.TextMode(),
		Ignore:   settings.Ignore,
		Logger:   Logger,
		Sink:     sink,
	})
	return sess
}

// readPassword returns $LOCKD_PASSWORD, or prompts on the terminal.
func readPassword() (string, error) {
	if password, ok := os.LookupEnv(PasswordEnv); ok {
		Logger.Debugf("Using password from %s", PasswordEnv)
		return password, nil
	}

	var (
		password []byte
		err      error
	)
	if utils.IsTerminal() {
		password, err = utils.ReadPassphrase("Password: ")
	} else {
		// stdin may carry note content; prompt on the terminal instead.
		password, err = utils.ReadPassphraseFromTTY("Password: ")
	}
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// unlock derives the session key for the configured username.
func unlock(sess *session.Session) error {
	user := username()
	if user == "" {
		return fmt.Errorf("%w: no username configured", lerrors.ErrKeyDerivation)
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	Logger.Debugf("Deriving key for %s", user)
	return sess.DeriveKey(user, password)
}

// formatError formats an error for display to the user.
func formatError(action string, err error) string {
	switch {
	case errors.Is(err, lerrors.ErrAuthenticationFailed):
		return ui.Error.Sprint("✗") + " Wrong password or the file was modified\n" +
			ui.Info.Sprint("→") + " Check that " + ui.Flag.Sprint("--user") + " matches the user that encrypted it"

	case errors.Is(err, lerrors.ErrMalformedContainer):
		return ui.Error.Sprint("✗") + " Not a lockd file: " + err.Error()

	case errors.Is(err, lerrors.ErrNotAuthenticated):
		return ui.Error.Sprint("✗") + " No key loaded\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("unlock") + " first"

	case errors.Is(err, lerrors.ErrAlreadyExists):
		return ui.Error.Sprint("✗") + " Destination already exists: " + err.Error()

	case errors.Is(err, lerrors.ErrInvalidText):
		return ui.Error.Sprint("✗") + " The note is not valid UTF-8\n" +
			ui.Info.Sprint("→") + " Set " + ui.Code.Sprint("strict_text = false") + " to open it as empty"

	default:
		return ui.Error.Sprint("✗") + " Failed to " + action + ": " + err.Error()
	}
}

// isUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, lerrors.ErrAlreadyExists),
		errors.Is(err, lerrors.ErrInvalidText):
		return false
	default:
		return true
	}
}

// loadAppConfig reads .lockdfg from the config directory, creating both if missing.
func loadAppConfig() (string, error) {
	dir := configs.UserLockdSettings.ConfigPath
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", lerrors.NewPathError("mkdir", dir, err)
	}
	return configs.LoadInitialConfig(dir)
}
