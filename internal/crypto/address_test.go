package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletcore/internal/crypto"
	"walletcore/internal/domain/types"
)

func TestDeriveAddress_KnownVectors(t *testing.T) {
	cases := []struct {
		network types.NetworkID
		kind    types.EntityKind
		index   uint32
		want    types.Address
	}{
		{types.Mainnet, types.EntityKindAccount, 0, "account_rdx128vge9xzep4hsn4pns8qch5uqld2yvx6f3gfff786du7vlk6w6e6k4"},
		{types.Mainnet, types.EntityKindAccount, 1, "account_rdx129xapgx582768wrkd54mq0a8lhp8aqp5vkkc8u2jfavujktl0tatcs"},
		{types.Stokenet, types.EntityKindAccount, 0, "account_tdx_2_12x4rz8yh6t2qtpwdmzc2fvz9xvr00rvv37v7lk3eyh8re7z6r0xyw8"},
		{types.Mainnet, types.EntityKindIdentity, 0, "identity_rdx12gmv24w02auy87kev4k8uttsdaqrsfpuj8tptzf75m8t4vsk86c6kr"},
	}
	for _, tc := range cases {
		path := cap26(t, tc.network, tc.kind, types.KeyRoleTransactionSigning, tc.index)
		pk, err := crypto.DerivePublicKey(testMnemonic, path, types.Curve25519)
		require.NoError(t, err)

		addr, err := crypto.DeriveAddress(tc.network, tc.kind, pk)
		require.NoError(t, err)
		assert.Equal(t, tc.want, addr)

		decoded, err := crypto.DecodeAddress(addr)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(decoded.HRP, tc.network.HRPSuffix()))
	}
}

func TestDeriveAddress_EntityTypeByte(t *testing.T) {
	olympia, err := types.NewOlympiaPath(0)
	require.NoError(t, err)
	secp, err := crypto.DerivePublicKey(testMnemonic, olympia, types.Secp256k1)
	require.NoError(t, err)
	ed, err := crypto.DerivePublicKey(testMnemonic, cap26(t, types.Mainnet, types.EntityKindAccount, types.KeyRoleTransactionSigning, 0), types.Curve25519)
	require.NoError(t, err)

	cases := []struct {
		kind types.EntityKind
		pk   types.PublicKey
		want byte
	}{
		{types.EntityKindAccount, ed, 0x51},
		{types.EntityKindAccount, secp, 0xd1},
		{types.EntityKindIdentity, ed, 0x52},
		{types.EntityKindIdentity, secp, 0xd2},
	}
	for _, tc := range cases {
		addr, err := crypto.DeriveAddress(types.Mainnet, tc.kind, tc.pk)
		require.NoError(t, err)
		decoded, err := crypto.DecodeAddress(addr)
		require.NoError(t, err)
		assert.Equal(t, tc.want, decoded.EntityType())
	}
}

func TestDeriveAddress_RejectsBadKey(t *testing.T) {
	_, err := crypto.DeriveAddress(types.Mainnet, types.EntityKindAccount, types.PublicKey{Curve: types.Curve25519, Bytes: []byte{1, 2}})
	assert.Error(t, err)
}

func TestDecodeAddress_RejectsTampered(t *testing.T) {
	addr := "account_rdx128vge9xzep4hsn4pns8qch5uqld2yvx6f3gfff786du7vlk6w6e6k5"
	_, err := crypto.DecodeAddress(types.Address(addr))
	assert.Error(t, err)
}

func TestFactorSourceIDFromMnemonic(t *testing.T) {
	id, err := crypto.FactorSourceIDFromMnemonic(types.FactorSourceKindDevice, testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, "device:6facb00a836864511fdf8f181382209e64e83ad462288ea1bc7868f236fb8033", id.String())

	pk, err := crypto.IDPublicKey(testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, "3b4fc51ce164be26723264f0a78b7e5ab44a143520c77e0e82bfbb9642e9cfd4", pk.Hex())

	ledger, err := crypto.FactorSourceIDFromMnemonic(types.FactorSourceKindLedger, testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, id.Body, ledger.Body)
	assert.NotEqual(t, id, ledger)

	contact := crypto.FactorSourceIDFromAddress("account_rdx128vge9xzep4hsn4pns8qch5uqld2yvx6f3gfff786du7vlk6w6e6k4")
	assert.Equal(t, types.FactorSourceKindTrustedContact, contact.Kind)
}
