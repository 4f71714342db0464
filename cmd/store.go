package main

import (
	"github.com/jameela786/pubmed-papers/internal/store"
)

func initStore() (store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		path = "pubmed-papers.db"
	}
	return store.NewSQLite(path)
}
