// Package collection implements repeatable field collections: rows of
// fields built from a model.Definition that can be added, removed and
// reordered while every field keeps a document-unique id and a submission
// name derived from its row index.
//
// A Document is the facade hosts drive. It serialises mutations, emits
// lifecycle events and calls out to optional collaborators (focus, pickers,
// rich-text editors, media frames) after each change.
//
//	doc := collection.New(collection.WithLogger(logger))
//	if _, err := doc.Register(def); err != nil {
//		return err
//	}
//	res, err := doc.AddRow("links")
//
// Grouped collections shift rows by exchanging values with a sibling; row
// positions and identifiers never move.
package collection
