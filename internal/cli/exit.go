package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/core/secret"
	"github.com/guiyumin/srt-translator/internal/core/srt"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitInput       = 1
	ExitCredential  = 2
	ExitTranslation = 3
	ExitOutput      = 4
	ExitUsage       = 5
	ExitInterrupted = 130
)

// usageError marks bad flags, arguments or configuration.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	var tErr *translate.Error
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, srt.ErrParse):
		return ExitInput
	case errors.Is(err, srt.ErrWrite):
		return ExitOutput
	case errors.Is(err, translate.ErrMissingAPIKey),
		errors.Is(err, translate.ErrAuth),
		errors.Is(err, secret.ErrDecryptionFailed),
		errors.Is(err, secret.ErrInvalidData),
		errors.Is(err, secret.ErrWeakPassphrase):
		return ExitCredential
	case errors.As(err, &tErr):
		return ExitTranslation
	default:
		return ExitUsage
	}
}

// errorLabel returns the localized category shown before an error message.
func errorLabel(t *i18n.Translations, code int) string {
	switch code {
	case ExitInput:
		return t.Errors.Input
	case ExitCredential:
		return t.Errors.Credential
	case ExitTranslation:
		return t.Errors.Translation
	case ExitOutput:
		return t.Errors.Output
	default:
		return t.Errors.Config
	}
}

// reportError prints err to w and returns the exit code for it.
func reportError(w io.Writer, t *i18n.Translations, err error) int {
	code := exitCode(err)
	switch code {
	case ExitOK:
		return code
	case ExitInterrupted:
		fmt.Fprintln(w, color.YellowString("%s", t.Translate.Interrupted))
		return code
	}

	if errors.Is(err, translate.ErrMissingAPIKey) {
		var tErr *translate.Error
		if errors.As(err, &tErr) {
			if info, ok := translate.LookupProvider(tErr.Provider); ok {
				fmt.Fprintf(w, "%s: %s\n", color.RedString("%s", errorLabel(t, code)),
					fmt.Sprintf(t.Errors.MissingKey, info.Name, info.EnvVar, info.Name))
				return code
			}
		}
	}

	fmt.Fprintf(w, "%s: %v\n", color.RedString("%s", errorLabel(t, code)), err)
	return code
}
