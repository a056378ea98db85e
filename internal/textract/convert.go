package textract

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"invoicepipe/internal/expense"
)

// toExpensePage flattens one API response's expense documents into the
// parser's page shape.
func toExpensePage(docs []types.ExpenseDocument) expense.Page {
	page := expense.Page{Documents: make([]expense.RawDocument, 0, len(docs))}
	for _, doc := range docs {
		page.Documents = append(page.Documents, toRawDocument(doc))
	}
	return page
}

func toRawDocument(doc types.ExpenseDocument) expense.RawDocument {
	raw := expense.RawDocument{
		SummaryFields: toFields(doc.SummaryFields),
	}
	for _, group := range doc.LineItemGroups {
		g := expense.LineItemGroup{}
		for _, item := range group.LineItems {
			g.LineItems = append(g.LineItems, expense.RawLineItem(toFields(item.LineItemExpenseFields)))
		}
		raw.LineItemGroups = append(raw.LineItemGroups, g)
	}
	return raw
}

func toFields(fields []types.ExpenseField) []expense.Field {
	out := make([]expense.Field, 0, len(fields))
	for _, f := range fields {
		var field expense.Field
		if f.Type != nil {
			field.Type = aws.ToString(f.Type.Text)
		}
		if f.LabelDetection != nil {
			field.Label = aws.ToString(f.LabelDetection.Text)
		}
		if f.ValueDetection != nil {
			field.Value = aws.ToString(f.ValueDetection.Text)
		}
		out = append(out, field)
	}
	return out
}

// toBlockPage converts SDK blocks into the parser's block-graph shape.
func toBlockPage(blocks []types.Block) expense.BlockPage {
	page := expense.BlockPage{Blocks: make([]expense.Block, 0, len(blocks))}
	for _, b := range blocks {
		blk := expense.Block{
			ID:              aws.ToString(b.Id),
			BlockType:       string(b.BlockType),
			Text:            aws.ToString(b.Text),
			SelectionStatus: string(b.SelectionStatus),
		}
		for _, et := range b.EntityTypes {
			blk.EntityTypes = append(blk.EntityTypes, string(et))
		}
		for _, rel := range b.Relationships {
			blk.Relationships = append(blk.Relationships, expense.Relationship{
				Type: string(rel.Type),
				IDs:  rel.Ids,
			})
		}
		page.Blocks = append(page.Blocks, blk)
	}
	return page
}
