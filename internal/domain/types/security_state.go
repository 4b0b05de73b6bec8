package types

import (
	"encoding/json"
	"fmt"
)

// SecurityStateKind tags the security state variant. Only unsecured control exists
// today; securified control is reserved.
type SecurityStateKind string

const SecurityStateUnsecured SecurityStateKind = "unsecured"

// SecurityState records which factor instances control an entity.
type SecurityState struct {
	Kind                  SecurityStateKind
	TransactionSigning    FactorInstance
	AuthenticationSigning *FactorInstance
}

// NewUnsecured returns unsecured control by a single transaction signing instance
// and an optional authentication signing instance.
func NewUnsecured(tx FactorInstance, auth *FactorInstance) SecurityState {
	s := SecurityState{Kind: SecurityStateUnsecured, TransactionSigning: tx}
	if auth != nil {
		a := *auth
		s.AuthenticationSigning = &a
	}
	return s
}

// WithAuthenticationSigning returns a copy of s that also carries auth. The
// transaction signing instance is never touched.
func (s SecurityState) WithAuthenticationSigning(auth FactorInstance) SecurityState {
	return NewUnsecured(s.TransactionSigning, &auth)
}

// FactorInstances returns every instance s references.
func (s SecurityState) FactorInstances() []FactorInstance {
	out := []FactorInstance{s.TransactionSigning}
	if s.AuthenticationSigning != nil {
		out = append(out, *s.AuthenticationSigning)
	}
	return out
}

type unsecuredEntityControlJSON struct {
	TransactionSigning    FactorInstance  `json:"transactionSigning"`
	AuthenticationSigning *FactorInstance `json:"authenticationSigning,omitempty"`
}

const unsecuredEntityControlKey = "unsecuredEntityControl"

func (s SecurityState) MarshalJSON() ([]byte, error) {
	if s.Kind != SecurityStateUnsecured {
		return nil, fmt.Errorf("security state %q: %w", s.Kind, ErrUnsupportedSecurityState)
	}
	return marshalUnion(string(s.Kind), unsecuredEntityControlKey, unsecuredEntityControlJSON{
		TransactionSigning:    s.TransactionSigning,
		AuthenticationSigning: s.AuthenticationSigning,
	})
}

func (s *SecurityState) UnmarshalJSON(b []byte) error {
	discriminator, raw, err := unmarshalUnion(b, func(d string) string {
		if d == string(SecurityStateUnsecured) {
			return unsecuredEntityControlKey
		}
		return d
	})
	if discriminator != "" && discriminator != string(SecurityStateUnsecured) {
		return fmt.Errorf("security state %q: %w", discriminator, ErrUnsupportedSecurityState)
	}
	if err != nil {
		return fmt.Errorf("security state: %w", err)
	}
	var c unsecuredEntityControlJSON
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("security state: %w", err)
	}
	*s = NewUnsecured(c.TransactionSigning, c.AuthenticationSigning)
	return nil
}
