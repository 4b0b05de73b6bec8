// Package domain defines the wallet data model and the contracts between its
// layers. It contains plain types (profile, factor sources, entities) and
// interfaces (stores, device transport, services) only.
package domain
