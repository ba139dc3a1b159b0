// Package audit describes what changed on a purchase order and encodes it
// for the append-only audit log.
package audit

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Action names the kind of change an audit record describes.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Record is one audit entry. It is either a *CreatedRecord or an
// *UpdatedRecord.
type Record interface {
	Action() Action
	record()
}

// CreatedRecord describes the creation of an order.
type CreatedRecord struct {
	OrderNumber string          `json:"orderNumber"`
	ItemCount   int             `json:"itemCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (*CreatedRecord) Action() Action { return ActionCreated }
func (*CreatedRecord) record()        {}

// MarshalJSON tags the record with its action so Decode can pick the variant.
func (r *CreatedRecord) MarshalJSON() ([]byte, error) {
	type plain CreatedRecord
	return json.Marshal(struct {
		Action Action `json:"action"`
		plain
	}{ActionCreated, plain(*r)})
}

// UpdatedRecord describes one update of an order. An update that changed
// nothing still produces a record with empty lists.
type UpdatedRecord struct {
	ChangedFields []string          `json:"changedFields"`
	NewValues     map[string]string `json:"newValues"`
	ItemChanges   ItemChanges       `json:"itemChanges"`
}

func (*UpdatedRecord) Action() Action { return ActionUpdated }
func (*UpdatedRecord) record()        {}

// MarshalJSON tags the record with its action so Decode can pick the variant.
func (r *UpdatedRecord) MarshalJSON() ([]byte, error) {
	type plain UpdatedRecord
	return json.Marshal(struct {
		Action Action `json:"action"`
		plain
	}{ActionUpdated, plain(*r)})
}

// ItemChanges groups line item differences by kind.
type ItemChanges struct {
	Added   []AddedItem   `json:"added"`
	Updated []UpdatedItem `json:"updated"`
	Removed []RemovedItem `json:"removed"`
}

// AddedItem is a line present after the update but not before.
type AddedItem struct {
	ProductID  uint   `json:"productId"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"totalPrice"`
}

// UpdatedItem holds only the fields whose values differ.
type UpdatedItem struct {
	ItemID    uint              `json:"itemId"`
	ProductID uint              `json:"productId"`
	Before    map[string]string `json:"before"`
	After     map[string]string `json:"after"`
}

// RemovedItem is a line that was dropped by the update.
type RemovedItem struct {
	ItemID     uint   `json:"itemId"`
	ProductID  uint   `json:"productId"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"totalPrice"`
}

func newUpdatedRecord() *UpdatedRecord {
	return &UpdatedRecord{
		ChangedFields: []string{},
		NewValues:     map[string]string{},
		ItemChanges: ItemChanges{
			Added:   []AddedItem{},
			Updated: []UpdatedItem{},
			Removed: []RemovedItem{},
		},
	}
}

// Encode serialises a record for the changes column.
func Encode(r Record) (datatypes.JSON, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode audit record: %w", err)
	}
	return datatypes.JSON(b), nil
}

// Decode parses a changes column back into its record variant.
func Decode(data []byte) (Record, error) {
	var head struct {
		Action Action `json:"action"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode audit record: %w", err)
	}

	var r Record
	switch head.Action {
	case ActionCreated:
		r = &CreatedRecord{}
	case ActionUpdated:
		r = newUpdatedRecord()
	default:
		return nil, fmt.Errorf("decode audit record: unknown action %q", head.Action)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decode audit record: %w", err)
	}
	return r, nil
}
