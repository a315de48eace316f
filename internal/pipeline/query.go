package pipeline

import (
	"context"
	"fmt"

	"github.com/itchyny/gojq"
)

// RunQuery evaluates a jq expression against a parsed JSON document and
// returns every produced value in order. It backs the --jq flag, the
// escape hatch for selections the simple path grammar cannot express.
func RunQuery(ctx context.Context, doc any, expr string) ([]any, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing jq expression: %w", err)
	}

	var items []any
	iter := query.RunWithContext(ctx, doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("evaluating jq expression: %w", err)
		}
		items = append(items, v)
	}
	return items, nil
}
