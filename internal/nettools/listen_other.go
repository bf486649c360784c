//go:build !darwin && !linux
// +build !darwin,!linux

package nettools

import "errors"

func setSockopts(fd uintptr, opts ListenOptions) error {
	if opts.ReusePort {
		return errors.New("nettools: SO_REUSEPORT is not supported on this platform")
	}
	return nil
}
