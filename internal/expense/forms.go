package expense

import (
	"strings"
)

// Block kinds and statuses from the generic document-analysis block graph.
const (
	BlockTypeKeyValueSet      = "KEY_VALUE_SET"
	BlockTypeWord             = "WORD"
	BlockTypeSelectionElement = "SELECTION_ELEMENT"

	EntityTypeKey = "KEY"

	RelationshipChild = "CHILD"
	RelationshipValue = "VALUE"

	SelectionSelected = "SELECTED"
)

// Block is one node of the forms block graph.
type Block struct {
	ID              string
	BlockType       string
	EntityTypes     []string
	Text            string
	SelectionStatus string
	Relationships   []Relationship
}

// Relationship links a block to child or value blocks by ID.
type Relationship struct {
	Type string
	IDs  []string
}

// BlockPage is one page of forms-analysis output.
type BlockPage struct {
	Blocks []Block
}

// KeyValue is a reconstructed form pair; Key is lower-cased and trimmed.
type KeyValue struct {
	Key   string
	Value string
}

func hasEntityType(b *Block, entityType string) bool {
	for _, t := range b.EntityTypes {
		if t == entityType {
			return true
		}
	}
	return false
}

// blockText reconstructs a block's text from its child words, joined by
// single spaces. Selection elements contribute a literal "X" only when
// selected.
func blockText(b *Block, byID map[string]*Block) string {
	var parts []string
	for _, rel := range b.Relationships {
		if rel.Type != RelationshipChild {
			continue
		}
		for _, id := range rel.IDs {
			child, ok := byID[id]
			if !ok {
				continue
			}
			switch child.BlockType {
			case BlockTypeWord:
				if child.Text != "" {
					parts = append(parts, child.Text)
				}
			case BlockTypeSelectionElement:
				if child.SelectionStatus == SelectionSelected {
					parts = append(parts, "X")
				}
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ParseFormsKeyValues rebuilds the key→value pairs of a forms analysis,
// in document order. The first occurrence of a normalized key wins; later
// duplicates are ignored.
func ParseFormsKeyValues(pages []BlockPage) []KeyValue {
	var kvs []KeyValue
	seen := make(map[string]struct{})

	for _, page := range pages {
		byID := make(map[string]*Block, len(page.Blocks))
		for i := range page.Blocks {
			if page.Blocks[i].ID != "" {
				byID[page.Blocks[i].ID] = &page.Blocks[i]
			}
		}

		for i := range page.Blocks {
			b := &page.Blocks[i]
			if b.BlockType != BlockTypeKeyValueSet || !hasEntityType(b, EntityTypeKey) {
				continue
			}

			key := strings.ToLower(strings.TrimSpace(blockText(b, byID)))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}

			value := ""
			for _, rel := range b.Relationships {
				if rel.Type != RelationshipValue {
					continue
				}
				for _, id := range rel.IDs {
					if vb, ok := byID[id]; ok {
						if t := blockText(vb, byID); t != "" {
							value = t
						}
					}
				}
			}

			seen[key] = struct{}{}
			kvs = append(kvs, KeyValue{Key: key, Value: strings.TrimSpace(value)})
		}
	}
	return kvs
}
