package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// cleanInvoiceSchema pins the shape of the clean artifact: every field
// present, money strings fixed to two decimals, date in YYYY-MM-DD when
// normalized.
var cleanInvoiceSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"invoiceNumber", "invoiceDate", "paymentTerms", "lineItems", "total", "currency"},
	"properties": map[string]any{
		"invoiceNumber": map[string]any{"type": []any{"string", "null"}},
		"invoiceDate":   map[string]any{"type": []any{"string", "null"}},
		"paymentTerms":  map[string]any{"type": []any{"string", "null"}},
		"total": map[string]any{
			"type":    []any{"string", "null"},
			"pattern": `^-?\d+\.\d{2}$`,
		},
		"currency": map[string]any{
			"type":    "string",
			"pattern": `^[A-Z]{3}$`,
		},
		"lineItems": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"description", "quantity", "unitPrice", "amount"},
				"properties": map[string]any{
					"description": map[string]any{"type": []any{"string", "null"}},
					"quantity":    map[string]any{"type": []any{"string", "null"}},
					"unitPrice": map[string]any{
						"type":    []any{"string", "null"},
						"pattern": `^-?\d+\.\d{2}$`,
					},
					"amount": map[string]any{
						"type":    []any{"string", "null"},
						"pattern": `^-?\d+\.\d{2}$`,
					},
				},
			},
		},
	},
}

// ValidateCleanInvoice validates serialized clean-invoice JSON against the
// artifact schema.
func ValidateCleanInvoice(data []byte) error {
	b, err := json.Marshal(cleanInvoiceSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("clean_invoice.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("clean_invoice.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
