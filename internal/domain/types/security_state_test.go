package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletcore/internal/domain/types"
)

func testInstance(t *testing.T, role types.KeyRole, index uint32) types.FactorInstance {
	t.Helper()
	path, err := types.NewCAP26Path(types.Mainnet, types.EntityKindAccount, role, index)
	require.NoError(t, err)
	key := make([]byte, 32)
	key[0] = byte(index)
	pk, err := types.NewPublicKey(types.Curve25519, key)
	require.NoError(t, err)
	return types.FactorInstance{FactorSourceID: testID(types.FactorSourceKindDevice, 1), PublicKey: pk, DerivationPath: path}
}

func TestSecurityState_WithAuthenticationSigningKeepsTransactionKey(t *testing.T) {
	tx := testInstance(t, types.KeyRoleTransactionSigning, 0)
	auth := testInstance(t, types.KeyRoleAuthenticationSigning, 0)

	s := types.NewUnsecured(tx, nil)
	updated := s.WithAuthenticationSigning(auth)

	assert.Nil(t, s.AuthenticationSigning)
	require.NotNil(t, updated.AuthenticationSigning)
	assert.True(t, updated.TransactionSigning.Equal(tx))
	assert.True(t, updated.AuthenticationSigning.Equal(auth))
	assert.Len(t, updated.FactorInstances(), 2)
}

func TestSecurityState_JSONShape(t *testing.T) {
	tx := testInstance(t, types.KeyRoleTransactionSigning, 3)
	b, err := json.Marshal(types.NewUnsecured(tx, nil))
	require.NoError(t, err)

	var shape struct {
		Discriminator string `json:"discriminator"`
		Control       struct {
			TransactionSigning struct {
				FactorSourceID struct {
					Discriminator string `json:"discriminator"`
				} `json:"factorSourceID"`
				Badge struct {
					Discriminator string `json:"discriminator"`
					VirtualSource struct {
						Discriminator string `json:"discriminator"`
						HD            struct {
							DerivationPath struct {
								Path string `json:"path"`
							} `json:"derivationPath"`
						} `json:"hierarchicalDeterministicPublicKey"`
					} `json:"virtualSource"`
				} `json:"badge"`
			} `json:"transactionSigning"`
		} `json:"unsecuredEntityControl"`
	}
	require.NoError(t, json.Unmarshal(b, &shape))
	assert.Equal(t, "unsecured", shape.Discriminator)
	assert.Equal(t, "fromHash", shape.Control.TransactionSigning.FactorSourceID.Discriminator)
	assert.Equal(t, "virtualSource", shape.Control.TransactionSigning.Badge.Discriminator)
	assert.Equal(t, "hierarchicalDeterministicPublicKey", shape.Control.TransactionSigning.Badge.VirtualSource.Discriminator)
	assert.Equal(t, "m/44H/1022H/1H/525H/1460H/3H", shape.Control.TransactionSigning.Badge.VirtualSource.HD.DerivationPath.Path)

	var got types.SecurityState
	require.NoError(t, json.Unmarshal(b, &got))
	assert.True(t, got.TransactionSigning.Equal(tx))
}

func TestSecurityState_SecurifiedIsRejected(t *testing.T) {
	var got types.SecurityState
	err := json.Unmarshal([]byte(`{"discriminator":"securified","securedEntityControl":{}}`), &got)
	assert.ErrorIs(t, err, types.ErrUnsupportedSecurityState)
}

func TestProfileEqual_SurfacesUnsupportedSecurityState(t *testing.T) {
	account := types.Account{
		NetworkID:     types.Mainnet,
		Address:       "account_rdx_0",
		SecurityState: types.SecurityState{Kind: "securified", TransactionSigning: testInstance(t, types.KeyRoleTransactionSigning, 0)},
	}
	p := types.Profile{Networks: []types.Network{{NetworkID: types.Mainnet, Accounts: []types.Account{account}}}}

	_, err := p.Equal(p)
	assert.ErrorIs(t, err, types.ErrUnsupportedSecurityState)

	p.Networks[0].Accounts[0].SecurityState.Kind = types.SecurityStateUnsecured
	same, err := p.Equal(p)
	require.NoError(t, err)
	assert.True(t, same)
}
