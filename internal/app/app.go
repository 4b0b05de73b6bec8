package app

import (
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"walletcore/internal/domain"
)

// HostDevice describes the machine the CLI runs on. The id is stable for a
// given host name.
func HostDevice() domain.DeviceInfo {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "localhost"
	}
	return domain.DeviceInfo{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Date:        time.Now().UTC(),
		Description: name + " (" + runtime.GOOS + ")",
	}
}
