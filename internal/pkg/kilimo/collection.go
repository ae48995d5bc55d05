package kilimo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// FetchAll retrieves every page of a paginated collection and concatenates
// the results in server page order.
//
// When the first page reports a total count and a page size, the remaining
// pages are fetched concurrently and reassembled by page index. When the
// pagination metadata is incomplete, the next links are followed
// sequentially; a visited-URL set guards against a server echoing a stale
// next link in a loop. Any single page failure aborts the whole fetch and
// no partial results are returned.
func FetchAll[T any](ctx context.Context, c *Client, rawURL string) ([]T, error) {
	first, err := FetchPage[T](ctx, c, rawURL)
	if err != nil {
		return nil, err
	}
	if first.Next == "" {
		return first.Results, nil
	}

	pageSize := len(first.Results)
	if first.Count > pageSize && pageSize > 0 {
		return fetchRemainingParallel(ctx, c, rawURL, first, pageSize)
	}

	return fetchRemainingSequential(ctx, c, rawURL, first)
}

func fetchRemainingParallel[T any](ctx context.Context, c *Client, rawURL string, first Page[T], pageSize int) ([]T, error) {
	totalPages := (first.Count + pageSize - 1) / pageSize

	pages := make([][]T, totalPages)
	pages[0] = first.Results

	eg, egCtx := errgroup.WithContext(ctx)
	for n := 2; n <= totalPages; n++ {
		n := n
		eg.Go(func() error {
			u, err := pageURL(rawURL, n)
			if err != nil {
				return err
			}

			page, err := FetchPage[T](egCtx, c, u)
			if err != nil {
				return fmt.Errorf("page %d of %d: %w", n, totalPages, err)
			}

			pages[n-1] = page.Results
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, first.Count)
	for _, page := range pages {
		out = append(out, page...)
	}
	return out, nil
}

func fetchRemainingSequential[T any](ctx context.Context, c *Client, rawURL string, first Page[T]) ([]T, error) {
	out := first.Results
	visited := map[string]struct{}{rawURL: {}}

	next := first.Next
	for next != "" {
		if _, seen := visited[next]; seen {
			break
		}
		visited[next] = struct{}{}

		page, err := FetchPage[T](ctx, c, next)
		if err != nil {
			return nil, err
		}

		out = append(out, page.Results...)
		next = page.Next
	}
	return out, nil
}

// pageURL sets page=n on the collection URL, preserving the rest of the
// query string.
func pageURL(rawURL string, n int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse collection url %s: %w", rawURL, err)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
