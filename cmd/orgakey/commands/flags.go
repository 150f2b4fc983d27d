package commands

import "time"

const (
	homeFlag        = "home"
	forceFlag       = "force"
	inputFlag       = "input"
	stdinFlag       = "stdin"
	stdoutFlag      = "stdout"
	maxAttemptsFlag = "max-attempts"
	timeoutFlag     = "timeout"
	recoverFlag     = "recover"
	hdPathFlag      = "hd-path"
	lockTimeoutFlag = "lock-timeout"

	defaultMaxAttempts = 5
	defaultTimeout     = 500 * time.Millisecond
	defaultLockTimeout = 10 * time.Second
)
