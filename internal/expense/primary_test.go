package expense

import "testing"

func TestChoosePrimary(t *testing.T) {
	t.Run("parseable total beats more items", func(t *testing.T) {
		docs := []Document{
			{
				InvoiceNumber: "A",
				Total:         "not a number",
				LineItems: []LineItem{
					{Description: "1"}, {Description: "2"}, {Description: "3"},
					{Description: "4"}, {Description: "5"},
				},
			},
			{
				InvoiceNumber: "B",
				Total:         "200.00",
				LineItems:     []LineItem{{Description: "only"}},
			},
		}
		got := ChoosePrimary(docs)
		if got == nil || got.InvoiceNumber != "B" {
			t.Errorf("ChoosePrimary = %+v, want invoice B", got)
		}
	})

	t.Run("most populated items wins among parseable", func(t *testing.T) {
		docs := []Document{
			{InvoiceNumber: "A", Total: "10.00", LineItems: []LineItem{{Description: "x"}}},
			{InvoiceNumber: "B", Total: "20.00", LineItems: []LineItem{
				{Description: "x"}, {Amount: "5.00"}, {},
			}},
		}
		got := ChoosePrimary(docs)
		if got == nil || got.InvoiceNumber != "B" {
			t.Errorf("ChoosePrimary = %+v, want invoice B", got)
		}
	})

	t.Run("empty line items do not count", func(t *testing.T) {
		docs := []Document{
			{InvoiceNumber: "A", Total: "10.00", LineItems: []LineItem{{}, {}, {}}},
			{InvoiceNumber: "B", Total: "20.00", LineItems: []LineItem{{Description: "x"}}},
		}
		got := ChoosePrimary(docs)
		if got == nil || got.InvoiceNumber != "B" {
			t.Errorf("ChoosePrimary = %+v, want invoice B", got)
		}
	})

	t.Run("no parseable totals falls back to all", func(t *testing.T) {
		docs := []Document{
			{InvoiceNumber: "A", LineItems: []LineItem{{Description: "x"}}},
			{InvoiceNumber: "B", LineItems: []LineItem{{Description: "x"}, {Description: "y"}}},
		}
		got := ChoosePrimary(docs)
		if got == nil || got.InvoiceNumber != "B" {
			t.Errorf("ChoosePrimary = %+v, want invoice B", got)
		}
	})

	t.Run("tie keeps earliest", func(t *testing.T) {
		docs := []Document{
			{InvoiceNumber: "A", Total: "10.00", LineItems: []LineItem{{Description: "x"}}},
			{InvoiceNumber: "B", Total: "20.00", LineItems: []LineItem{{Description: "y"}}},
		}
		got := ChoosePrimary(docs)
		if got == nil || got.InvoiceNumber != "A" {
			t.Errorf("ChoosePrimary = %+v, want earliest invoice A", got)
		}
	})

	t.Run("empty input returns nil", func(t *testing.T) {
		if got := ChoosePrimary(nil); got != nil {
			t.Errorf("ChoosePrimary(nil) = %+v, want nil", got)
		}
	})

	t.Run("returned document is detached", func(t *testing.T) {
		docs := []Document{{InvoiceNumber: "A", Total: "10.00"}}
		got := ChoosePrimary(docs)
		got.InvoiceNumber = "changed"
		if docs[0].InvoiceNumber != "A" {
			t.Error("mutating the primary must not affect the input slice")
		}
	})
}
