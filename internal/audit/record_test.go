package audit

import (
	"encoding/json"
	"testing"
)

func TestEncodeDecodeCreated(t *testing.T) {
	in := &CreatedRecord{OrderNumber: "PO-20240105-001", ItemCount: 2, TotalAmount: dec("1900.50")}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["action"] != "created" || raw["orderNumber"] != "PO-20240105-001" {
		t.Errorf("encoded = %s", data)
	}

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got, ok := out.(*CreatedRecord)
	if !ok {
		t.Fatalf("Decode() = %T, want *CreatedRecord", out)
	}
	if got.ItemCount != 2 || !got.TotalAmount.Equal(dec("1900.5")) {
		t.Errorf("decoded = %+v", got)
	}
}

func TestEncodeDecodeUpdated(t *testing.T) {
	in := newUpdatedRecord()
	in.ChangedFields = append(in.ChangedFields, "status")
	in.NewValues["status"] = "confirmed"
	in.ItemChanges.Removed = append(in.ItemChanges.Removed, RemovedItem{ItemID: 2, ProductID: 11, Quantity: 1, TotalPrice: "700"})

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	got, ok := out.(*UpdatedRecord)
	if !ok {
		t.Fatalf("Decode() = %T, want *UpdatedRecord", out)
	}
	if got.Action() != ActionUpdated || got.NewValues["status"] != "confirmed" {
		t.Errorf("decoded = %+v", got)
	}
	if len(got.ItemChanges.Removed) != 1 || got.ItemChanges.Removed[0].ItemID != 2 {
		t.Errorf("removed = %+v", got.ItemChanges.Removed)
	}
	if got.ItemChanges.Added == nil || got.ItemChanges.Updated == nil {
		t.Errorf("empty lists should decode as empty, not nil")
	}
}

func TestDecodeUnknownAction(t *testing.T) {
	if _, err := Decode([]byte(`{"action":"deleted"}`)); err == nil {
		t.Fatal("expected error for unknown action")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
