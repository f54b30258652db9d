package main

import (
	"fmt"

	"github.com/codegraf/codegraf/internal/model"
	"github.com/codegraf/codegraf/internal/store"
)

// printStats reports the current symbol-graph counts, per spec.md §6's
// "stats" surface: a quick read of what the last indexing run produced
// without re-running it.
func printStats(st *store.Store) error {
	var files, symbols, relationships, patterns, antiPatterns int64

	if err := st.DB.Model(&model.FileRecord{}).Count(&files).Error; err != nil {
		return err
	}
	if err := st.DB.Model(&model.Symbol{}).Count(&symbols).Error; err != nil {
		return err
	}
	if err := st.DB.Model(&model.Relationship{}).Count(&relationships).Error; err != nil {
		return err
	}
	if err := st.DB.Model(&model.Pattern{}).Count(&patterns).Error; err != nil {
		return err
	}
	if err := st.DB.Model(&model.Pattern{}).Where("is_anti_pattern = ?", true).Count(&antiPatterns).Error; err != nil {
		return err
	}

	fmt.Printf("files:          %d\n", files)
	fmt.Printf("symbols:        %d\n", symbols)
	fmt.Printf("relationships:  %d\n", relationships)
	fmt.Printf("patterns:       %d\n", patterns)
	fmt.Printf("anti-patterns:  %d\n", antiPatterns)
	return nil
}
