package kilimo

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"
)

// Page is one normalized page of a collection. Next is empty on the last
// page; Count is the collection total when the server reports one.
type Page[T any] struct {
	Results []T
	Next    string
	Count   int
}

type envelope[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// FetchPage retrieves one page and normalizes the three shapes the service
// has been observed to return: a bare JSON array, a {count,next,results}
// envelope, or a single bare object (wrapped as a one-element page). A next
// link is rewritten through the client's origin-rewrite rule.
func FetchPage[T any](ctx context.Context, c *Client, url string) (Page[T], error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return Page[T]{}, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := sonic.Unmarshal(trimmed, &list); err != nil {
			return Page[T]{}, fmt.Errorf("decode array page %s: %w", url, err)
		}
		return Page[T]{Results: list}, nil
	}

	var env envelope[T]
	if err := sonic.Unmarshal(trimmed, &env); err != nil {
		return Page[T]{}, fmt.Errorf("decode page %s: %w", url, err)
	}

	if env.Results == nil {
		var one T
		if err := sonic.Unmarshal(trimmed, &one); err != nil {
			return Page[T]{}, fmt.Errorf("decode object page %s: %w", url, err)
		}
		return Page[T]{Results: []T{one}}, nil
	}

	next := ""
	if env.Next != nil && *env.Next != "" {
		next = c.Rewrite(*env.Next)
	}

	return Page[T]{Results: env.Results, Next: next, Count: env.Count}, nil
}
