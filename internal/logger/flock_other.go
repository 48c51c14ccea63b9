//go:build !unix

package logger

import "os"

// advisory locking is not available, writes are still single calls

func lockFile(*os.File) error {
	return nil
}

func unlockFile(*os.File) error {
	return nil
}
