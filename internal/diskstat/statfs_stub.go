//go:build !linux && !darwin

package diskstat

import "errors"

func (statfsProvider) Usage(path string) (Usage, error) {
	return Usage{}, errors.New("disk usage query is not supported on this platform")
}
