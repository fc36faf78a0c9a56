package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables passing the global flags to extensions.
const (
	EnvTransactionsFile = "CBT_TRANSACTIONS_FILE"
	EnvTransfersFile    = "CBT_TRANSFERS_FILE"
	EnvMarksFile        = "CBT_MARKS_FILE"
	EnvDefaultCurrency  = "CBT_DEFAULT_CURRENCY"
	EnvVerbose          = "CBT_VERBOSE"
)

// RunExtension attempts to find and execute an external cbt-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	return runExtension(subcommand, args, os.Stdin, os.Stdout, os.Stderr)
}

func runExtension(subcommand string, args []string, stdin io.Reader, stdout, stderr io.Writer) (bool, int) {
	externalCmdName := "cbt-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		logger().Debug("external command not found", "command", externalCmdName, "error", err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the global flags as environment variables.
func extensionEnv() []string {
	return []string{
		EnvTransactionsFile + "=" + *transactionsFile,
		EnvTransfersFile + "=" + *transfersFile,
		EnvMarksFile + "=" + *marksFile,
		EnvDefaultCurrency + "=" + *defaultCurrency,
		EnvVerbose + "=" + strconv.FormatBool(*Verbose),
	}
}

