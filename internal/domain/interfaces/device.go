package interfaces

import (
	"context"

	domaintypes "walletcore/internal/domain/types"
)

// DeviceTransport talks to a hardware wallet. Calls block until the device
// answers or ctx is done.
type DeviceTransport interface {
	DeviceInfo(ctx context.Context) (domaintypes.HardwareDeviceInfo, error)
	DerivePublicKeys(
		ctx context.Context,
		id domaintypes.FactorSourceID,
		paths []domaintypes.DerivationPath,
	) ([]domaintypes.PublicKey, error)
}
