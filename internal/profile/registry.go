package profile

import (
	"fmt"
	"slices"

	"walletcore/internal/domain"
	"walletcore/internal/domain/types"
)

// FactorSource returns the factor source with id.
func FactorSource(p domain.Profile, id domain.FactorSourceID) (domain.FactorSource, error) {
	i := factorSourceIndex(p, id)
	if i < 0 {
		return domain.FactorSource{}, &domain.FactorSourceNotFoundError{ID: id}
	}
	return p.FactorSources[i], nil
}

func factorSourceIndex(p domain.Profile, id domain.FactorSourceID) int {
	return slices.IndexFunc(p.FactorSources, func(f domain.FactorSource) bool { return f.ID == id })
}

// NextIndex returns the index the next entity of kind on network derived from
// the factor source id will use.
func NextIndex(p domain.Profile, id domain.FactorSourceID, network domain.NetworkID, kind domain.EntityKind) (uint32, error) {
	fs, err := FactorSource(p, id)
	if err != nil {
		return 0, err
	}
	return fs.NextIndex(network, kind)
}

// WithIncrementedIndex returns p with the (network, kind) counter of the factor
// source id advanced by one.
func WithIncrementedIndex(p domain.Profile, id domain.FactorSourceID, network domain.NetworkID, kind domain.EntityKind) (domain.Profile, error) {
	i := factorSourceIndex(p, id)
	if i < 0 {
		return domain.Profile{}, &domain.FactorSourceNotFoundError{ID: id}
	}
	next, err := p.FactorSources[i].WithIncrementedIndex(network, kind)
	if err != nil {
		return domain.Profile{}, err
	}
	out := p.Clone()
	out.FactorSources[i] = next
	return out, nil
}

// AddFactorSource appends fs. Ids are content-derived, so adding the same
// source twice fails with domain.ErrDuplicateFactorSource. Sources that derive
// keys are also duplicates when their id bodies match under another kind: the
// same seed behind two kinds would derive colliding entities.
func AddFactorSource(p domain.Profile, fs domain.FactorSource) (domain.Profile, error) {
	if !fs.Kind().Valid() {
		return domain.Profile{}, fmt.Errorf("add factor source: unknown kind %q", fs.Kind())
	}
	if factorSourceIndex(p, fs.ID) >= 0 {
		return domain.Profile{}, fmt.Errorf("add factor source %s: %w", fs.ID, domain.ErrDuplicateFactorSource)
	}
	if fs.Kind().CanDerive() {
		i := slices.IndexFunc(p.FactorSources, func(f domain.FactorSource) bool {
			return f.Kind().CanDerive() && f.ID.Body == fs.ID.Body
		})
		if i >= 0 {
			return domain.Profile{}, fmt.Errorf("add factor source %s: same key material as %s: %w", fs.ID, p.FactorSources[i].ID, domain.ErrDuplicateFactorSource)
		}
	}
	out := p.Clone()
	out.FactorSources = append(out.FactorSources, fs.Clone())
	return out, nil
}

// UpdateFactorSource replaces the factor source with the same id. Updates that
// would lower any next-index counter are rejected.
func UpdateFactorSource(p domain.Profile, fs domain.FactorSource) (domain.Profile, error) {
	i := factorSourceIndex(p, fs.ID)
	if i < 0 {
		return domain.Profile{}, &domain.FactorSourceNotFoundError{ID: fs.ID}
	}
	for _, old := range p.FactorSources[i].NextIndices {
		now := fs.NextIndicesFor(old.NetworkID)
		if now.ForAccount < old.ForAccount || now.ForIdentity < old.ForIdentity {
			return domain.Profile{}, fmt.Errorf("update factor source %s on %s: %w", fs.ID, old.NetworkID, domain.ErrIndexRegression)
		}
	}
	out := p.Clone()
	out.FactorSources[i] = fs.Clone()
	return out, nil
}

// MergeNextIndices returns p with every next-index counter raised to the value
// the same factor source holds in other, when that is higher. Sources only
// other knows about are left out.
func MergeNextIndices(p, other domain.Profile) domain.Profile {
	out := p.Clone()
	for i, fs := range out.FactorSources {
		j := factorSourceIndex(other, fs.ID)
		if j < 0 {
			continue
		}
		for _, theirs := range other.FactorSources[j].NextIndices {
			k := slices.IndexFunc(fs.NextIndices, func(n types.NextDerivationIndices) bool { return n.NetworkID == theirs.NetworkID })
			if k < 0 {
				fs.NextIndices = append(fs.NextIndices, theirs)
				continue
			}
			fs.NextIndices[k].ForAccount = max(fs.NextIndices[k].ForAccount, theirs.ForAccount)
			fs.NextIndices[k].ForIdentity = max(fs.NextIndices[k].ForIdentity, theirs.ForIdentity)
		}
		out.FactorSources[i] = fs
	}
	return out
}
