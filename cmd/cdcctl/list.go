package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/edvin/cdcadmin/internal/listview"
)

type listFlags struct {
	search string
	status string
	page   int
	size   int
}

func (f *listFlags) bind(cmd *cobra.Command, withStatus bool) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive search")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.size, "page-size", 10, "items per page")
	if withStatus {
		cmd.Flags().StringVar(&f.status, "status", "", "only show this status")
	}
}

// apply filters by search and status, then pages the result.
func apply[T any](items []T, f listFlags, fields listview.Fields[T], status func(T) string) listview.Page[T] {
	items = listview.Filter(items, f.search, fields)
	if f.status != "" && status != nil {
		kept := items[:0:0]
		for _, it := range items {
			if strings.EqualFold(status(it), f.status) {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	return listview.Paginate(items, f.page, f.size)
}
