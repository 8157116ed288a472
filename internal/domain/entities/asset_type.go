// Package entities contains domain entities with identity and lifecycle.
package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vinayak20130/ledgervault/internal/domain/errors"
	"github.com/vinayak20130/ledgervault/internal/domain/valueobjects"
)

// AssetType is a distinct category of virtual currency (e.g. GOLD_COINS),
// identified by a stable string code. Read-only for the movement engine;
// reference-data lifecycle lives outside the core.
type AssetType struct {
	id        uuid.UUID
	code      valueobjects.Currency
	name      string
	createdAt time.Time
}

// NewAssetType creates a new AssetType.
func NewAssetType(code, name string) (*AssetType, error) {
	c, err := valueobjects.NewCurrency(code)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ValidationError{Field: "name", Message: "name is required"}
	}
	return &AssetType{
		id:        uuid.New(),
		code:      c,
		name:      name,
		createdAt: time.Now(),
	}, nil
}

// ReconstructAssetType hydrates an AssetType from stored data.
func ReconstructAssetType(id uuid.UUID, code valueobjects.Currency, name string, createdAt time.Time) *AssetType {
	return &AssetType{id: id, code: code, name: name, createdAt: createdAt}
}

func (a *AssetType) ID() uuid.UUID              { return a.id }
func (a *AssetType) Code() valueobjects.Currency { return a.code }
func (a *AssetType) Name() string               { return a.name }
func (a *AssetType) CreatedAt() time.Time        { return a.createdAt }
