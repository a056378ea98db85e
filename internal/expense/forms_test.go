package expense

import "testing"

func formsPage() BlockPage {
	return BlockPage{Blocks: []Block{
		{
			ID:          "k1",
			BlockType:   BlockTypeKeyValueSet,
			EntityTypes: []string{EntityTypeKey},
			Relationships: []Relationship{
				{Type: RelationshipChild, IDs: []string{"w1", "w2"}},
				{Type: RelationshipValue, IDs: []string{"v1"}},
			},
		},
		{ID: "w1", BlockType: BlockTypeWord, Text: "Invoice"},
		{ID: "w2", BlockType: BlockTypeWord, Text: "Number"},
		{
			ID:        "v1",
			BlockType: BlockTypeKeyValueSet,
			Relationships: []Relationship{
				{Type: RelationshipChild, IDs: []string{"w3"}},
			},
		},
		{ID: "w3", BlockType: BlockTypeWord, Text: "INV-9001"},

		{
			ID:          "k2",
			BlockType:   BlockTypeKeyValueSet,
			EntityTypes: []string{EntityTypeKey},
			Relationships: []Relationship{
				{Type: RelationshipChild, IDs: []string{"w4"}},
				{Type: RelationshipValue, IDs: []string{"v2"}},
			},
		},
		{ID: "w4", BlockType: BlockTypeWord, Text: "Paid"},
		{
			ID:        "v2",
			BlockType: BlockTypeKeyValueSet,
			Relationships: []Relationship{
				{Type: RelationshipChild, IDs: []string{"s1"}},
			},
		},
		{ID: "s1", BlockType: BlockTypeSelectionElement, SelectionStatus: SelectionSelected},
	}}
}

func TestParseFormsKeyValues(t *testing.T) {
	t.Run("rebuilds pairs from the block graph", func(t *testing.T) {
		kvs := ParseFormsKeyValues([]BlockPage{formsPage()})
		if len(kvs) != 2 {
			t.Fatalf("got %d pairs, want 2: %v", len(kvs), kvs)
		}
		if kvs[0].Key != "invoice number" || kvs[0].Value != "INV-9001" {
			t.Errorf("pair 0 = %+v", kvs[0])
		}
		if kvs[1].Key != "paid" || kvs[1].Value != "X" {
			t.Errorf("selection element pair = %+v", kvs[1])
		}
	})

	t.Run("first occurrence of a key wins", func(t *testing.T) {
		page := formsPage()
		dup := BlockPage{Blocks: append([]Block{}, page.Blocks...)}
		dup.Blocks = append(dup.Blocks,
			Block{
				ID:          "k3",
				BlockType:   BlockTypeKeyValueSet,
				EntityTypes: []string{EntityTypeKey},
				Relationships: []Relationship{
					{Type: RelationshipChild, IDs: []string{"w1", "w2"}},
					{Type: RelationshipValue, IDs: []string{"v3"}},
				},
			},
			Block{
				ID:        "v3",
				BlockType: BlockTypeKeyValueSet,
				Relationships: []Relationship{
					{Type: RelationshipChild, IDs: []string{"w5"}},
				},
			},
			Block{ID: "w5", BlockType: BlockTypeWord, Text: "LATER-VALUE"},
		)

		kvs := ParseFormsKeyValues([]BlockPage{dup})
		if len(kvs) != 2 {
			t.Fatalf("got %d pairs, want 2: %v", len(kvs), kvs)
		}
		if kvs[0].Value != "INV-9001" {
			t.Errorf("duplicate key overwrote first value: %+v", kvs[0])
		}
	})

	t.Run("value blocks missing yield empty value", func(t *testing.T) {
		page := BlockPage{Blocks: []Block{
			{
				ID:          "k1",
				BlockType:   BlockTypeKeyValueSet,
				EntityTypes: []string{EntityTypeKey},
				Relationships: []Relationship{
					{Type: RelationshipChild, IDs: []string{"w1"}},
				},
			},
			{ID: "w1", BlockType: BlockTypeWord, Text: "Due Date"},
		}}
		kvs := ParseFormsKeyValues([]BlockPage{page})
		if len(kvs) != 1 || kvs[0].Key != "due date" || kvs[0].Value != "" {
			t.Errorf("kvs = %v, want single empty-valued pair", kvs)
		}
	})
}

func TestNeedsFormsFallback(t *testing.T) {
	testCases := []struct {
		name     string
		doc      Document
		expected bool
	}{
		{
			name:     "complete header",
			doc:      Document{InvoiceNumber: "INV-1", InvoiceDate: "2024-01-01", PaymentTerms: "Net 30"},
			expected: false,
		},
		{
			name:     "missing number",
			doc:      Document{InvoiceDate: "2024-01-01", PaymentTerms: "Net 30"},
			expected: true,
		},
		{
			name:     "money-like number counts as missing",
			doc:      Document{InvoiceNumber: "1,234.56", InvoiceDate: "2024-01-01", PaymentTerms: "Net 30"},
			expected: true,
		},
		{
			name:     "missing date",
			doc:      Document{InvoiceNumber: "INV-1", PaymentTerms: "Net 30"},
			expected: true,
		},
		{
			name:     "missing terms",
			doc:      Document{InvoiceNumber: "INV-1", InvoiceDate: "2024-01-01"},
			expected: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsFormsFallback(&tc.doc); got != tc.expected {
				t.Errorf("NeedsFormsFallback = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestPatchFromForms(t *testing.T) {
	kvs := []KeyValue{
		{Key: "invoice number", Value: "INV-5"},
		{Key: "invoice date", Value: "03/01/2024"},
		{Key: "payment terms", Value: "Net 45"},
		{Key: "total", Value: "999.99"},
	}

	t.Run("fills all gaps", func(t *testing.T) {
		doc := Document{Total: "100.00"}
		PatchFromForms(&doc, kvs)
		if doc.InvoiceNumber != "INV-5" || doc.InvoiceDate != "03/01/2024" || doc.PaymentTerms != "Net 45" {
			t.Errorf("patched doc = %+v", doc)
		}
		if doc.Total != "100.00" {
			t.Errorf("total = %q, must never be patched", doc.Total)
		}
	})

	t.Run("existing fields untouched", func(t *testing.T) {
		doc := Document{InvoiceNumber: "KEEP", InvoiceDate: "2023-12-31", PaymentTerms: "Due on receipt"}
		PatchFromForms(&doc, kvs)
		if doc.InvoiceNumber != "KEEP" || doc.InvoiceDate != "2023-12-31" || doc.PaymentTerms != "Due on receipt" {
			t.Errorf("patched doc = %+v", doc)
		}
	})

	t.Run("money-like invoice number replaced", func(t *testing.T) {
		doc := Document{InvoiceNumber: "1,234.56", InvoiceDate: "2024-01-01", PaymentTerms: "Net 30"}
		PatchFromForms(&doc, kvs)
		if doc.InvoiceNumber != "INV-5" {
			t.Errorf("invoice number = %q, want INV-5", doc.InvoiceNumber)
		}
	})

	t.Run("money-like candidate rejected", func(t *testing.T) {
		doc := Document{InvoiceDate: "2024-01-01", PaymentTerms: "Net 30"}
		PatchFromForms(&doc, []KeyValue{{Key: "invoice number", Value: "$500.00"}})
		if doc.InvoiceNumber != "" {
			t.Errorf("invoice number = %q, money-like candidate must be rejected", doc.InvoiceNumber)
		}
	})
}
