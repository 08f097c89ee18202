package model

import (
	"strconv"
	"strings"
)

// CompanionSuffix is appended to a file field's id (and name) to address the
// hidden input carrying the attachment id.
const CompanionSuffix = "_id"

// FieldID derives a document id. Grouped fields use "<group>_<key>_<index>",
// simple fields use "<key>_<index>", so ids always end in "_<index>".
func FieldID(kind CollectionKind, collection, key string, index int) string {
	if kind == CollectionGrouped {
		return collection + "_" + key + "_" + itoa(index)
	}
	return key + "_" + itoa(index)
}

// FieldName derives the submission key. Grouped fields use
// "<group>[<index>][<key>]", simple fields use "<key>[<index>]".
func FieldName(kind CollectionKind, collection, key string, index int) string {
	if kind == CollectionGrouped {
		return collection + "[" + itoa(index) + "][" + key + "]"
	}
	return key + "[" + itoa(index) + "]"
}

// CompanionID returns the id of the hidden attachment-id input paired with a
// file field.
func CompanionID(fieldID string) string {
	return fieldID + CompanionSuffix
}

// ReindexID rewrites the trailing "_<old>" segment of id to "_<new>". Ids that
// do not end in "_<old>" are returned unchanged.
func ReindexID(id string, oldIndex, newIndex int) string {
	suffix := "_" + itoa(oldIndex)
	if !strings.HasSuffix(id, suffix) {
		return id
	}
	return strings.TrimSuffix(id, suffix) + "_" + itoa(newIndex)
}

// ReindexName rewrites the first "[<old>]" segment of name to "[<new>]".
// Only a complete bracketed segment matches, so "[12]" is untouched when old
// is 1.
func ReindexName(name string, oldIndex, newIndex int) string {
	segment := "[" + itoa(oldIndex) + "]"
	pos := strings.Index(name, segment)
	if pos < 0 {
		return name
	}
	return name[:pos] + "[" + itoa(newIndex) + "]" + name[pos+len(segment):]
}

// ParseIndex extracts the trailing "_<n>" index of an id.
func ParseIndex(id string) (int, bool) {
	pos := strings.LastIndexByte(id, '_')
	if pos < 0 || pos == len(id)-1 {
		return 0, false
	}
	n, err := strconv.Atoi(id[pos+1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
